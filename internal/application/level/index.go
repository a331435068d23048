package level

import (
	"math"
	"slices"

	"github.com/solarlune/resolv"
	"github.com/younwookim/timewarp/internal/domain/entity"
)

const (
	tagPlatform = "platform"
	tagWall     = "wall"
	tagProbe    = "probe"
)

type indexEntry struct {
	obstacle entity.Obstacle
	object   *resolv.Object
	reach    float64
}

// obstacleIndex is a broad phase over the moving obstacles. Each obstacle is
// registered with the area it covered between the last and current tick, so
// a query returns every obstacle a swept test could hit.
type obstacleIndex struct {
	space   *resolv.Space
	probe   *resolv.Object
	entries []indexEntry
	cell    float64
	// offX and offY shift world coordinates into the non-negative space
	offX, offY float64
}

func newObstacleIndex(bounds entity.Rect, cell float64) *obstacleIndex {
	cell = math.Max(1, math.Ceil(cell))
	margin := 2 * cell
	w := int(math.Ceil(bounds.W + 2*margin))
	h := int(math.Ceil(bounds.H + 2*margin))

	ix := &obstacleIndex{
		space: resolv.NewSpace(w, h, int(cell), int(cell)),
		probe: resolv.NewObject(0, 0, 1, 1, tagProbe),
		cell:  cell,
		offX:  margin - bounds.X,
		offY:  margin - bounds.Y,
	}
	ix.space.Add(ix.probe)
	return ix
}

// add registers an obstacle under tag; Data holds its id within the tag.
// reach is the depth of its interaction box below the top edge.
func (ix *obstacleIndex) add(o entity.Obstacle, id int, tag string, reach float64) {
	obj := resolv.NewObject(0, 0, 1, 1, tag)
	obj.Data = id
	ix.space.Add(obj)

	e := indexEntry{obstacle: o, object: obj, reach: reach}
	ix.entries = append(ix.entries, e)
	ix.place(e)
}

// sync re-registers every obstacle after the obstacles moved
func (ix *obstacleIndex) sync() {
	for _, e := range ix.entries {
		ix.place(e)
	}
}

func (ix *obstacleIndex) place(e indexEntry) {
	box := e.obstacle.Box()
	lastX, lastY := e.obstacle.Previous()

	minX, maxX := math.Min(box.X, lastX), math.Max(box.X, lastX)+box.W
	minY, maxY := math.Min(box.Y, lastY), math.Max(box.Y, lastY)+e.reach

	e.object.X = minX + ix.offX
	e.object.Y = minY + ix.offY
	e.object.W = math.Max(maxX-minX, 1)
	e.object.H = math.Max(maxY-minY, 1)
	e.object.Update()
}

// query returns the sorted ids of obstacles tagged tag whose registered
// area shares a space cell with area padded by one cell.
func (ix *obstacleIndex) query(area entity.Rect, tag string) []int {
	ix.probe.X = area.X - ix.cell + ix.offX
	ix.probe.Y = area.Y - ix.cell + ix.offY
	ix.probe.W = area.W + 2*ix.cell
	ix.probe.H = area.H + 2*ix.cell
	ix.probe.Update()

	check := ix.probe.Check(0, 0, tag)
	if check == nil {
		return nil
	}

	objs := check.ObjectsByTags(tag)
	ids := make([]int, 0, len(objs))
	for _, o := range objs {
		if id, ok := o.Data.(int); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
