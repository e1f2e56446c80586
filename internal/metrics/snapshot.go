// Package metrics summarises the state of a model at a point in time and
// aggregates the outcomes of a learning session.
package metrics

import (
	"sort"

	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/clock"
	"github.com/normanking/chrest/internal/pattern"
)

// Snapshot holds network statistics at a single time.
type Snapshot struct {
	Time        int                 `json:"time"`
	TotalNodes  int                 `json:"total_nodes"`
	Modalities  []ModalityStats     `json:"modalities"`
	Clocks      map[string]int      `json:"clocks"`
	Stm         map[string][]int    `json:"stm"`
	Histograms  map[string][]Bucket `json:"histograms"`
	NamingLinks int                 `json:"naming_links"`
	Productions int                 `json:"productions"`
}

// ModalityStats describes one modality's part of the network.
type ModalityStats struct {
	Modality     string  `json:"modality"`
	Nodes        int     `json:"nodes"`
	AverageDepth float64 `json:"average_depth"`
	MaxDepth     int     `json:"max_depth"`
}

// Bucket is one bar of a histogram.
type Bucket struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// Histogram names used in Snapshot.Histograms.
const (
	ContentsSize  = "contents_size"
	ImageSize     = "image_size"
	SemanticLinks = "semantic_links"
)

// Collect walks the network as it stood at time t. Roots are excluded from
// every count.
func Collect(m *chrest.Model, t int) Snapshot {
	s := Snapshot{
		Time:       t,
		Clocks:     make(map[string]int, len(clock.Kinds())),
		Stm:        make(map[string][]int, pattern.Count),
		Histograms: make(map[string][]Bucket, 3),
	}
	for _, k := range clock.Kinds() {
		s.Clocks[k.String()] = m.Clock(k)
	}

	contents := map[int]int{}
	images := map[int]int{}
	links := map[int]int{}
	for _, mod := range pattern.Modalities() {
		stats := ModalityStats{Modality: mod.String()}
		depthSum := 0

		type entry struct {
			ref   int
			depth int
		}
		root := m.Root(mod)
		queue := []entry{}
		for _, l := range root.Children(t) {
			queue = append(queue, entry{l.Child().Reference(), 1})
		}
		seen := map[int]bool{}
		for len(queue) > 0 {
			e := queue[0]
			queue = queue[1:]
			if seen[e.ref] {
				continue
			}
			seen[e.ref] = true
			node, ok := m.Network().Node(e.ref)
			if !ok {
				continue
			}

			stats.Nodes++
			depthSum += e.depth
			if e.depth > stats.MaxDepth {
				stats.MaxDepth = e.depth
			}
			contents[node.Contents().Size()]++
			images[node.Image(t).Size()]++
			links[len(node.SemanticLinks(t))]++
			if node.NamedBy(t) != nil {
				s.NamingLinks++
			}
			s.Productions += len(node.Productions(t))

			for _, l := range node.Children(t) {
				queue = append(queue, entry{l.Child().Reference(), e.depth + 1})
			}
		}
		if stats.Nodes > 0 {
			stats.AverageDepth = float64(depthSum) / float64(stats.Nodes)
		}
		s.TotalNodes += stats.Nodes
		s.Modalities = append(s.Modalities, stats)

		var refs []int
		for _, n := range m.StmContents(mod, t) {
			refs = append(refs, n.Reference())
		}
		s.Stm[mod.String()] = refs
	}

	s.Histograms[ContentsSize] = buckets(contents)
	s.Histograms[ImageSize] = buckets(images)
	s.Histograms[SemanticLinks] = buckets(links)
	return s
}

func buckets(counts map[int]int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for v, c := range counts {
		out = append(out, Bucket{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
