package render

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSurfaceDrawTextClips(t *testing.T) {
	s := NewSurface(5, 1)
	s.DrawText(3, 0, "abcdef", StyleText)

	if got := s.At(3, 0).Rune; got != 'a' {
		t.Errorf("cell (3,0) = %q, want 'a'", got)
	}
	if got := s.At(4, 0).Rune; got != 'b' {
		t.Errorf("cell (4,0) = %q, want 'b'", got)
	}
	// Nothing past the right edge, and out-of-range reads are blanks.
	if got := s.At(5, 0).Rune; got != ' ' {
		t.Errorf("cell (5,0) = %q, want blank", got)
	}
}

func TestSurfaceWideRunes(t *testing.T) {
	s := NewSurface(6, 1)
	s.DrawText(0, 0, "日本", StyleText)

	if got := s.At(0, 0).Rune; got != '日' {
		t.Errorf("cell (0,0) = %q, want '日'", got)
	}
	if got := s.At(1, 0).Rune; got != 0 {
		t.Errorf("cell (1,0) = %q, want continuation", got)
	}
	if got := s.At(2, 0).Rune; got != '本' {
		t.Errorf("cell (2,0) = %q, want '本'", got)
	}

	w, h := CellMeasurer{}.Measure("日本")
	if w != 4 || h != 1 {
		t.Errorf("Measure = (%d,%d), want (4,1)", w, h)
	}
}

func TestFrameBufferBlitIsAtomic(t *testing.T) {
	fb := NewFrameBuffer(4, 1)
	fb.Back().DrawText(0, 0, "back", StyleText)

	// Drawing on the back buffer must not leak into the front buffer.
	if got := fb.Front().At(0, 0).Rune; got != ' ' {
		t.Fatalf("front mutated before blit: %q", got)
	}

	fb.Blit()
	if got := fb.Front().At(0, 0).Rune; got != 'b' {
		t.Errorf("front after blit = %q, want 'b'", got)
	}

	// Further back-buffer drawing leaves the published frame intact.
	fb.Back().Clear()
	if got := fb.Front().At(0, 0).Rune; got != 'b' {
		t.Errorf("front changed without blit: %q", got)
	}
}

func TestSurfaceRenderRuns(t *testing.T) {
	s := NewSurface(4, 1)
	s.DrawText(0, 0, "ab", StyleText)
	s.DrawText(2, 0, "cd", StyleHover)

	styles := map[StyleID]lipgloss.Style{}
	if got := s.Render(styles); got != "abcd" {
		t.Errorf("Render = %q, want %q", got, "abcd")
	}
}
