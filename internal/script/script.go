// Package script runs Lua driver scripts that build scenes.
//
// A script gets these globals:
//
//	scene()                  new empty scene
//	tab(x, y, height, width) a packed hanging tab at x,y
//	hexnet(edge)             the turtle-traced net
//	turtle(x, y, bearing)    a turtle with turn(deg), fwd(dist), polyline(scene)
//	output(scene)            selects the scene the script produces
//
// Scenes have circle, rect, line, polyline, pack, translate, merge, count
// and bounds methods. Styles are optional trailing tables
// {fill=, stroke=, width=}.
package script

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	lua "github.com/yuin/gopher-lua"

	"circlepack/internal/geometry"
	"circlepack/internal/layout"
	"circlepack/internal/pack"
	"circlepack/internal/turtle"
)

const (
	SCENE_TYPE  = "circlepack.scene"
	TURTLE_TYPE = "circlepack.turtle"
)

var ErrNoOutput = errors.New("script did not call output(scene)")

// Runner owns one Lua state. It is not safe for concurrent use.
type Runner struct {
	L      *lua.LState
	packer *pack.Packer
	log    *log.Logger
	output *geometry.Scene
	tally  layout.Tally
}

func New(p *pack.Packer) *Runner {
	r := &Runner{L: lua.NewState(), packer: p}
	r.register()
	return r
}

func (r *Runner) SetLogger(l *log.Logger) *Runner {
	r.log = l
	return r
}

func (r *Runner) Close() {
	if r.L != nil {
		r.L.Close()
	}
}

// Tally counts circles requested and placed by every pack the script ran.
func (r *Runner) Tally() layout.Tally {
	return r.tally
}

// RunString executes src; name is used in error messages.
func (r *Runner) RunString(ctx context.Context, name, src string) (*geometry.Scene, error) {
	r.L.SetContext(ctx)
	if err := r.L.DoString(src); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return r.result(name)
}

func (r *Runner) RunFile(ctx context.Context, path string) (*geometry.Scene, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	r.L.SetContext(ctx)
	if err := r.L.DoFile(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r.result(path)
}

func (r *Runner) result(name string) (*geometry.Scene, error) {
	if r.output == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoOutput)
	}
	if r.log != nil {
		r.log.Printf("[SCRIPT] %s: %d shapes, placed %d/%d circles",
			name, r.output.Len(), r.tally.Placed, r.tally.Requested)
	}
	return r.output, nil
}

func (r *Runner) register() {
	L := r.L

	sceneMT := L.NewTypeMetatable(SCENE_TYPE)
	L.SetField(sceneMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"circle":    r.sceneCircle,
		"rect":      r.sceneRect,
		"line":      r.sceneLine,
		"polyline":  r.scenePolyline,
		"pack":      r.scenePack,
		"translate": r.sceneTranslate,
		"merge":     r.sceneMerge,
		"count":     r.sceneCount,
		"bounds":    r.sceneBounds,
	}))

	turtleMT := L.NewTypeMetatable(TURTLE_TYPE)
	L.SetField(turtleMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"turn":     r.turtleTurn,
		"fwd":      r.turtleForward,
		"polyline": r.turtlePolyline,
	}))

	L.SetGlobal("scene", L.NewFunction(r.newScene))
	L.SetGlobal("tab", L.NewFunction(r.newTab))
	L.SetGlobal("hexnet", L.NewFunction(r.newHexNet))
	L.SetGlobal("turtle", L.NewFunction(r.newTurtle))
	L.SetGlobal("output", L.NewFunction(r.setOutput))
}

// ========================================
// Conversions
// ========================================

func (r *Runner) pushScene(L *lua.LState, s *geometry.Scene) {
	ud := L.NewUserData()
	ud.Value = s
	L.SetMetatable(ud, L.GetTypeMetatable(SCENE_TYPE))
	L.Push(ud)
}

func checkScene(L *lua.LState, n int) *geometry.Scene {
	ud := L.CheckUserData(n)
	if s, ok := ud.Value.(*geometry.Scene); ok {
		return s
	}
	L.ArgError(n, "scene expected")
	return nil
}

func checkTurtle(L *lua.LState, n int) *turtle.Turtle {
	ud := L.CheckUserData(n)
	if t, ok := ud.Value.(*turtle.Turtle); ok {
		return t
	}
	L.ArgError(n, "turtle expected")
	return nil
}

func num(L *lua.LState, n int) float64 {
	return float64(L.CheckNumber(n))
}

// field reads an optional number from a table.
func field(L *lua.LState, tbl *lua.LTable, key string, def float64) float64 {
	switch v := tbl.RawGetString(key).(type) {
	case lua.LNumber:
		return float64(v)
	case *lua.LNilType:
		return def
	default:
		L.RaiseError("field %q must be a number, got %s", key, v.Type().String())
	}
	return def
}

// point reads {x=, y=} or {x, y}.
func point(L *lua.LState, v lua.LValue, what string) geometry.Point {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		L.RaiseError("%s must be a table {x, y}", what)
		return geometry.Point{}
	}
	x, xok := tbl.RawGetString("x").(lua.LNumber)
	y, yok := tbl.RawGetString("y").(lua.LNumber)
	if !xok || !yok {
		x, xok = tbl.RawGetInt(1).(lua.LNumber)
		y, yok = tbl.RawGetInt(2).(lua.LNumber)
	}
	if !xok || !yok {
		L.RaiseError("%s must have numeric x and y", what)
	}
	return geometry.Pt(float64(x), float64(y))
}

// style reads an optional style table at stack position n.
func style(L *lua.LState, n int) geometry.Style {
	st := geometry.DefaultStyle()
	tbl := L.OptTable(n, nil)
	if tbl == nil {
		return st
	}
	if v, ok := tbl.RawGetString("fill").(lua.LString); ok {
		st = st.Set("fill", string(v))
	}
	if v, ok := tbl.RawGetString("stroke").(lua.LString); ok {
		st = st.Set("stroke", string(v))
	}
	if v, ok := tbl.RawGetString("width").(lua.LNumber); ok {
		st = st.Set("stroke-width", v.String())
	}
	return st
}

// ========================================
// Globals
// ========================================

func (r *Runner) newScene(L *lua.LState) int {
	r.pushScene(L, geometry.NewScene())
	return 1
}

func (r *Runner) newTab(L *lua.LState) int {
	s, t, err := layout.Tab(r.packer, geometry.Pt(num(L, 1), num(L, 2)), num(L, 3), num(L, 4))
	if err != nil {
		L.RaiseError("tab: %v", err)
		return 0
	}
	r.tally.Requested += t.Requested
	r.tally.Placed += t.Placed
	r.pushScene(L, s)
	return 1
}

func (r *Runner) newHexNet(L *lua.LState) int {
	edge := float64(L.OptNumber(1, lua.LNumber(layout.HEXNET_EDGE)))
	r.pushScene(L, layout.HexNet(edge))
	return 1
}

func (r *Runner) newTurtle(L *lua.LState) int {
	t := turtle.New(geometry.Pt(num(L, 1), num(L, 2)), float64(L.OptNumber(3, 0)))
	ud := L.NewUserData()
	ud.Value = t
	L.SetMetatable(ud, L.GetTypeMetatable(TURTLE_TYPE))
	L.Push(ud)
	return 1
}

func (r *Runner) setOutput(L *lua.LState) int {
	r.output = checkScene(L, 1)
	return 0
}

// ========================================
// Scene methods
// ========================================

func (r *Runner) sceneCircle(L *lua.LState) int {
	s := checkScene(L, 1)
	c, err := geometry.NewCircle(geometry.Pt(num(L, 2), num(L, 3)), num(L, 4), style(L, 5))
	if err != nil {
		L.RaiseError("circle: %v", err)
		return 0
	}
	s.Append(c)
	L.Push(L.Get(1))
	return 1
}

func (r *Runner) sceneRect(L *lua.LState) int {
	s := checkScene(L, 1)
	rect, err := geometry.NewRectangle(geometry.Pt(num(L, 2), num(L, 3)), geometry.Pt(num(L, 4), num(L, 5)), style(L, 6))
	if err != nil {
		L.RaiseError("rect: %v", err)
		return 0
	}
	s.Append(rect)
	L.Push(L.Get(1))
	return 1
}

func (r *Runner) sceneLine(L *lua.LState) int {
	s := checkScene(L, 1)
	s.Append(geometry.NewLine(geometry.Pt(num(L, 2), num(L, 3)), geometry.Pt(num(L, 4), num(L, 5)), style(L, 6)))
	L.Push(L.Get(1))
	return 1
}

func (r *Runner) scenePolyline(L *lua.LState) int {
	s := checkScene(L, 1)
	tbl := L.CheckTable(2)
	var pts []geometry.Point
	for i := 1; i <= tbl.Len(); i++ {
		pts = append(pts, point(L, tbl.RawGetInt(i), fmt.Sprintf("point %d", i)))
	}
	s.Append(geometry.NewPolyline(pts, style(L, 3)))
	L.Push(L.Get(1))
	return 1
}

// scenePack takes {min=, max=, n=, r=, space=, tries=, crosshairs=,
// gradient={from=, to=}, style=} and returns the number placed.
func (r *Runner) scenePack(L *lua.LState) int {
	s := checkScene(L, 1)
	opts := L.CheckTable(2)

	req := pack.NewRequest(
		point(L, opts.RawGetString("min"), "min"),
		point(L, opts.RawGetString("max"), "max"),
		int(field(L, opts, "n", 1)),
		field(L, opts, "r", 0),
	)
	req.Space = field(L, opts, "space", pack.DEFAULT_SPACE)
	req.Tries = int(field(L, opts, "tries", pack.DEFAULT_TRIES))
	req.Crosshairs = lua.LVAsBool(opts.RawGetString("crosshairs"))
	if g, ok := opts.RawGetString("gradient").(*lua.LTable); ok {
		req.Gradient = &pack.Gradient{
			From: point(L, g.RawGetString("from"), "gradient.from"),
			To:   point(L, g.RawGetString("to"), "gradient.to"),
		}
	}
	if st, ok := opts.RawGetString("style").(*lua.LTable); ok {
		L.Push(st)
		req.Style = style(L, L.GetTop())
		L.Pop(1)
	}

	placed, err := r.packer.Pack(s, req)
	if err != nil {
		L.RaiseError("pack: %v", err)
		return 0
	}
	r.tally.Requested += req.Count
	r.tally.Placed += placed
	L.Push(lua.LNumber(placed))
	return 1
}

func (r *Runner) sceneTranslate(L *lua.LState) int {
	s := checkScene(L, 1)
	s.Translate(geometry.Pt(num(L, 2), num(L, 3)))
	L.Push(L.Get(1))
	return 1
}

func (r *Runner) sceneMerge(L *lua.LState) int {
	s := checkScene(L, 1)
	s.Merge(checkScene(L, 2))
	L.Push(L.Get(1))
	return 1
}

func (r *Runner) sceneCount(L *lua.LState) int {
	L.Push(lua.LNumber(checkScene(L, 1).Len()))
	return 1
}

func (r *Runner) sceneBounds(L *lua.LState) int {
	b := checkScene(L, 1).Bounds()
	L.Push(lua.LNumber(b.Min.X))
	L.Push(lua.LNumber(b.Min.Y))
	L.Push(lua.LNumber(b.Max.X))
	L.Push(lua.LNumber(b.Max.Y))
	return 4
}

// ========================================
// Turtle methods
// ========================================

func (r *Runner) turtleTurn(L *lua.LState) int {
	checkTurtle(L, 1).Turn(num(L, 2))
	L.Push(L.Get(1))
	return 1
}

func (r *Runner) turtleForward(L *lua.LState) int {
	checkTurtle(L, 1).Forward(num(L, 2))
	L.Push(L.Get(1))
	return 1
}

// turtlePolyline appends the path walked so far to a scene.
func (r *Runner) turtlePolyline(L *lua.LState) int {
	t := checkTurtle(L, 1)
	s := checkScene(L, 2)
	s.Append(t.Polyline(style(L, 3)))
	L.Push(L.Get(2))
	return 1
}
