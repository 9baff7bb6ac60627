package hud

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is the per-frame state shown on the overlay.
type Stats struct {
	Frame        int
	FPS          float64
	TextureBytes int64
	Bodies       int
	TimeScale    float64
	Paused       bool
	Camera       string
	Focus        string
}

// NewPrinter returns a printer for tag. Counters use the locale's digit
// grouping.
func NewPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Lines lays out s as overlay lines: scene state on the left, frame
// counters on the right.
func (s Stats) Lines(p *message.Printer) []Line {
	speed := p.Sprintf("time ×%.1f", s.TimeScale)
	if s.Paused {
		speed = "paused"
	}
	focus := s.Focus
	if focus == "" {
		focus = "free"
	}
	return []Line{
		{Text: "orrery"},
		{Text: p.Sprintf("focus: %s", focus)},
		{Text: p.Sprintf("camera: %s", s.Camera)},
		{Text: speed},
		{Text: p.Sprintf("frame %d", s.Frame), Align: AlignRight},
		{Text: p.Sprintf("%.1f fps", s.FPS), Align: AlignRight},
		{Text: p.Sprintf("%d bodies, %s textures", s.Bodies, FormatBytes(p, s.TextureBytes)), Align: AlignRight},
	}
}

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB"}

// FormatBytes renders n with a binary unit, e.g. "1.5 KiB".
func FormatBytes(p *message.Printer, n int64) string {
	if n < 1024 {
		return p.Sprintf("%d B", n)
	}
	v := float64(n)
	u := 0
	for v >= 1024 && u < len(byteUnits)-1 {
		v /= 1024
		u++
	}
	return p.Sprintf("%.1f %s", v, byteUnits[u])
}
