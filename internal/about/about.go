// Package about shows the product window with the installer download flow.
package about

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/inertia-app/backdrop/internal/download"
)

const (
	productName  = "Inertia"
	windowTitle  = "About Inertia"
	tagline      = "Smooth motion for your desktop"
	windowWidth  = float32(420)
	windowHeight = float32(300)

	statusStarting = "Your download is starting..."
	statusManual   = "If it does not start, use the manual download below."
)

var (
	backgroundColor = color.NRGBA{R: 0x14, G: 0x0a, B: 0x1f, A: 0xff}
	titleColor      = color.NRGBA{R: 0xe8, G: 0xdc, B: 0xff, A: 0xff}
	mutedColor      = color.NRGBA{R: 0x9a, G: 0x8c, B: 0xb8, A: 0xff}
	accentColor     = color.NRGBA{R: 0x7b, G: 0x4d, B: 0xd6, A: 0xff}
)

// Options configures the about window.
type Options struct {
	DownloadURL string
	// Dir receives the installer. Empty means the user's downloads folder.
	Dir   string
	Debug bool
}

// Fetcher saves url into dir and returns the file path.
type Fetcher func(ctx context.Context, url, dir string) (string, error)

// About is the window content and its download flow.
type About struct {
	win   fyne.Window
	opts  Options
	fetch Fetcher
	open  func(string) error
	delay time.Duration

	modal       *widget.PopUp
	status      *widget.Label
	button      *pillButton
	downloading bool
}

// Run opens the about window and blocks until it is closed.
func Run(opts Options) {
	a := app.New()
	w := a.NewWindow(windowTitle)
	w.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.SetFixedSize(true)
	w.CenterOnScreen()

	client := &download.Client{}
	if opts.Debug {
		client.Progress = func(written, total int64) {
			log.Printf("Downloaded %d/%d bytes", written, total)
		}
	}
	New(w, opts, client.Fetch)
	w.ShowAndRun()
}

// New builds the about content into w. fetch performs the download.
func New(w fyne.Window, opts Options, fetch Fetcher) *About {
	a := &About{
		win:    w,
		opts:   opts,
		fetch:  fetch,
		open:   openURL,
		delay:  download.StartDelay,
	}
	w.SetContent(a.content())
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.CloseDownload()
		}
	})
	return a
}

func (a *About) content() fyne.CanvasObject {
	title := canvas.NewText(productName, titleColor)
	title.Alignment = fyne.TextAlignCenter
	title.TextSize = 28
	title.TextStyle = fyne.TextStyle{Bold: true}

	sub := canvas.NewText(tagline, mutedColor)
	sub.Alignment = fyne.TextAlignCenter
	sub.TextSize = 13

	a.button = newPillButton("Download", "Downloading...", color.White, accentColor, a.ShowDownload)
	websiteButton := widget.NewButton("Open download page", a.ManualDownload)

	body := container.NewVBox(
		layout.NewSpacer(),
		title,
		sub,
		layout.NewSpacer(),
		container.NewCenter(a.button),
		container.NewCenter(websiteButton),
		layout.NewSpacer(),
	)
	return container.NewStack(canvas.NewRectangle(backgroundColor), container.NewPadded(body))
}

// ShowDownload shows the notice and starts the download after a short
// delay. Tapping outside the notice, Escape or the close button hide it;
// hiding does not cancel the download. While a download runs, showing the
// notice again does not start another one.
func (a *About) ShowDownload() {
	if a.modal == nil {
		a.status = widget.NewLabel(statusStarting)
		a.status.Alignment = fyne.TextAlignCenter
		hint := widget.NewLabel(statusManual)
		hint.Wrapping = fyne.TextWrapWord

		manual := widget.NewButton("Manual download", a.ManualDownload)
		closeButton := widget.NewButton("Close", a.CloseDownload)

		box := container.NewVBox(
			a.status,
			hint,
			container.NewGridWithColumns(2, manual, closeButton),
		)
		a.modal = widget.NewPopUp(box, a.win.Canvas())
		a.modal.Resize(fyne.NewSize(windowWidth-60, box.MinSize().Height))
	}
	size := a.win.Canvas().Size()
	ms := a.modal.Size()
	a.modal.ShowAtPosition(fyne.NewPos((size.Width-ms.Width)/2, (size.Height-ms.Height)/2))
	if a.downloading {
		return
	}

	a.downloading = true
	a.status.SetText(statusStarting)
	a.button.setBusy(true)
	time.AfterFunc(a.delay, a.startDownload)
}

// CloseDownload hides the notice.
func (a *About) CloseDownload() {
	if a.modal != nil && a.modal.Visible() {
		a.modal.Hide()
	}
}

// ManualDownload opens the installer URL in the browser.
func (a *About) ManualDownload() {
	if err := a.open(a.opts.DownloadURL); err != nil {
		log.Printf("Error opening URL: %v", err)
	}
}

// Modal reports whether the download notice is showing.
func (a *About) Modal() bool {
	return a.modal != nil && a.modal.Visible()
}

func (a *About) startDownload() {
	dir := a.opts.Dir
	if dir == "" {
		d, err := download.DefaultDir()
		if err != nil {
			a.fail(fmt.Errorf("locating downloads folder: %w", err))
			return
		}
		dir = d
	}
	path, err := a.fetch(context.Background(), a.opts.DownloadURL, dir)
	if err != nil {
		a.fail(err)
		return
	}
	if a.opts.Debug {
		log.Printf("Saved %s", path)
	}
	fyne.Do(func() { a.done("Saved to " + path) })
}

func (a *About) fail(err error) {
	log.Printf("Download failed: %v", err)
	fyne.Do(func() { a.done("Download failed. Try the manual download.") })
}

// done runs on the UI goroutine once a download ends.
func (a *About) done(status string) {
	a.downloading = false
	a.status.SetText(status)
	a.button.setBusy(false)
}
