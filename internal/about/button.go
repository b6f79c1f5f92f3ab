package about

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// pillButton is the rounded call to action. It lightens under the mouse,
// darkens while held and ignores taps while busy.
type pillButton struct {
	widget.BaseWidget
	text      string
	busyText  string
	textColor color.Color
	bgColor   color.Color
	onTapped  func()

	hovered bool
	pressed bool
	busy    bool
}

var (
	_ fyne.Tappable     = (*pillButton)(nil)
	_ desktop.Hoverable = (*pillButton)(nil)
	_ desktop.Mouseable = (*pillButton)(nil)
)

func newPillButton(text, busyText string, textColor, bgColor color.Color, onTapped func()) *pillButton {
	b := &pillButton{
		text:      text,
		busyText:  busyText,
		textColor: textColor,
		bgColor:   bgColor,
		onTapped:  onTapped,
	}
	b.ExtendBaseWidget(b)
	return b
}

// setBusy switches the label and blocks taps until cleared.
func (b *pillButton) setBusy(busy bool) {
	b.busy = busy
	b.pressed = false
	b.Refresh()
}

func (b *pillButton) label() string {
	if b.busy {
		return b.busyText
	}
	return b.text
}

func (b *pillButton) fill() color.Color {
	switch {
	case b.busy:
		return mixColor(b.bgColor, backgroundColor, 0.5)
	case b.pressed:
		return mixColor(b.bgColor, color.Black, 0.2)
	case b.hovered:
		return mixColor(b.bgColor, color.White, 0.15)
	}
	return b.bgColor
}

func (b *pillButton) Tapped(*fyne.PointEvent) {
	if b.busy || b.onTapped == nil {
		return
	}
	b.onTapped()
}

func (b *pillButton) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *pillButton) MouseMoved(*desktop.MouseEvent) {}

func (b *pillButton) MouseOut() {
	b.hovered = false
	b.pressed = false
	b.Refresh()
}

func (b *pillButton) MouseDown(*desktop.MouseEvent) {
	b.pressed = true
	b.Refresh()
}

func (b *pillButton) MouseUp(*desktop.MouseEvent) {
	b.pressed = false
	b.Refresh()
}

func (b *pillButton) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(b.fill())
	rect.CornerRadius = 18
	rect.SetMinSize(fyne.NewSize(180, 36))

	text := canvas.NewText(b.label(), b.textColor)
	text.Alignment = fyne.TextAlignCenter
	text.TextSize = 14
	text.TextStyle = fyne.TextStyle{Bold: true}

	return &pillButtonRenderer{
		button:  b,
		rect:    rect,
		text:    text,
		content: container.NewStack(rect, container.NewCenter(text)),
	}
}

type pillButtonRenderer struct {
	button  *pillButton
	rect    *canvas.Rectangle
	text    *canvas.Text
	content fyne.CanvasObject
}

func (r *pillButtonRenderer) Layout(size fyne.Size) { r.content.Resize(size) }

func (r *pillButtonRenderer) MinSize() fyne.Size { return r.content.MinSize() }

func (r *pillButtonRenderer) Refresh() {
	r.rect.FillColor = r.button.fill()
	r.text.Color = r.button.textColor
	r.text.Text = r.button.label()
	r.rect.Refresh()
	r.text.Refresh()
}

func (r *pillButtonRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.content} }

func (r *pillButtonRenderer) Destroy() {}

// mixColor blends a towards b by t in [0, 1].
func mixColor(a, b color.Color, t float64) color.NRGBA {
	ca := color.NRGBAModel.Convert(a).(color.NRGBA)
	cb := color.NRGBAModel.Convert(b).(color.NRGBA)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{R: mix(ca.R, cb.R), G: mix(ca.G, cb.G), B: mix(ca.B, cb.B), A: mix(ca.A, cb.A)}
}
