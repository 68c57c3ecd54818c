package main

import (
	"container/list"
	"fmt"
	"time"

	"github.com/nsf/termbox-go"

	"github.com/bskari/flightcore/fc"
)

// stringWriter lays out successive lines top-down, adapted from
// dashboard.go's StringWriter/IndentLine pair.
type stringWriter struct {
	line int
}

func (w *stringWriter) writeLine(str string) {
	for x, ch := range str {
		termbox.SetCell(x, w.line, ch, termbox.ColorWhite, termbox.ColorBlack)
	}
	w.line++
}

func (w *stringWriter) indentLine(str string) {
	for x, ch := range str {
		termbox.SetCell(x+3, w.line, ch, termbox.ColorWhite, termbox.ColorBlack)
	}
	w.line++
}

// messageLog keeps the last few status lines, adapted from
// dashboard.go's logDashboard/dashboardMessages package globals,
// owned by Dashboard instead of living at package scope.
type messageLog struct {
	messages *list.List
}

func newMessageLog() *messageLog { return &messageLog{messages: list.New()} }

func (m *messageLog) log(format string, args ...interface{}) {
	now := time.Now()
	formatted := fmt.Sprintf("%s %s", now.Format("15:04:05.000"), fmt.Sprintf(format, args...))
	m.messages.PushFront(formatted)
	if m.messages.Len() > 5 {
		m.messages.Remove(m.messages.Back())
	}
}

// Dashboard renders one ControllerContext's live state to the
// terminal via termbox, throttled to twice a second like
// dashboard.go's updateDashboard.
type Dashboard struct {
	ctx      *fc.ControllerContext
	log      *messageLog
	lastDraw time.Time
}

// NewDashboard wraps ctx for rendering.
func NewDashboard(ctx *fc.ControllerContext) *Dashboard {
	return &Dashboard{ctx: ctx, log: newMessageLog()}
}

// Log appends a status line shown in the "Messages" section.
func (d *Dashboard) Log(format string, args ...interface{}) {
	d.log.log(format, args...)
}

// Draw redraws the full screen, skipping the call if called more
// often than twice a second.
func (d *Dashboard) Draw(result fc.TickResult) {
	if time.Since(d.lastDraw) < 500*time.Millisecond {
		return
	}
	d.lastDraw = time.Now()

	w := &stringWriter{}
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)

	w.writeLine("=== Attitude/Rate ===")
	w.indentLine(fmt.Sprintf("axisPID: R=%6.1f P=%6.1f Y=%6.1f", result.AxisPID[fc.Roll], result.AxisPID[fc.Pitch], result.AxisPID[fc.Yaw]))

	w.writeLine("=== Navigation ===")
	w.indentLine(fmt.Sprintf("pos: N=%7.1f E=%7.1f Z=%7.1f cm", d.ctx.Actual.Pos.X, d.ctx.Actual.Pos.Y, d.ctx.Actual.Pos.Z))
	w.indentLine(fmt.Sprintf("vel: N=%7.1f E=%7.1f Z=%7.1f cm/s", d.ctx.Actual.Vel.X, d.ctx.Actual.Vel.Y, d.ctx.Actual.Vel.Z))
	w.indentLine(fmt.Sprintf("landed: %v", result.Landed))

	w.writeLine("=== Output ===")
	w.indentLine(fmt.Sprintf("throttle: %d", result.Throttle))

	w.writeLine("=== Messages ===")
	for e := d.log.messages.Front(); e != nil; e = e.Next() {
		w.indentLine(e.Value.(string))
	}

	termbox.Flush()
}
