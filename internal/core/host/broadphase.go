package host

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/zeusync/bumparena/internal/core/arena"
)

type carBox struct {
	index int
	rect  rtreego.Rect
}

func (c *carBox) Bounds() rtreego.Rect { return c.rect }

func boundingBox(v *arena.Vehicle) (rtreego.Rect, error) {
	side := v.Radius * 2
	return rtreego.NewRect(rtreego.Point{v.Pos.X - v.Radius, v.Pos.Y - v.Radius}, []float64{side, side})
}

// candidatePairs returns index pairs (i < j) whose bounding boxes intersect,
// ordered by i then j.
func candidatePairs(vehicles []*arena.Vehicle) [][2]int {
	boxes := make([]*carBox, 0, len(vehicles))
	spatials := make([]rtreego.Spatial, 0, len(vehicles))
	for i, v := range vehicles {
		if v == nil || !v.HasBody || v.Radius <= 0 {
			continue
		}
		rect, err := boundingBox(v)
		if err != nil {
			continue
		}
		b := &carBox{index: i, rect: rect}
		boxes = append(boxes, b)
		spatials = append(spatials, b)
	}
	if len(boxes) < 2 {
		return nil
	}

	tree := rtreego.NewTree(2, 4, 16, spatials...)

	var pairs [][2]int
	for _, b := range boxes {
		matches := tree.SearchIntersect(b.rect, func(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
			return obj.(*carBox).index <= b.index, false
		})
		js := make([]int, 0, len(matches))
		for _, m := range matches {
			js = append(js, m.(*carBox).index)
		}
		slices.Sort(js)
		for _, j := range js {
			pairs = append(pairs, [2]int{b.index, j})
		}
	}
	return pairs
}
