package render

// FrameBuffer pairs an off-screen back surface with the visible front
// surface. Layout draws into Back; Blit publishes the finished frame. The
// front buffer only ever holds complete frames.
type FrameBuffer struct {
	back  *Surface
	front *Surface
}

// NewFrameBuffer allocates both surfaces at the given size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		back:  NewSurface(width, height),
		front: NewSurface(width, height),
	}
}

// Back returns the draw target for the frame under construction.
func (fb *FrameBuffer) Back() *Surface { return fb.back }

// Front returns the most recently published frame.
func (fb *FrameBuffer) Front() *Surface { return fb.front }

// Resize reallocates both surfaces. The previous frame is lost; callers
// redraw on the next pass.
func (fb *FrameBuffer) Resize(width, height int) {
	fb.back.Resize(width, height)
	fb.front.Resize(width, height)
}

// Blit copies the back surface onto the front surface in one step.
func (fb *FrameBuffer) Blit() {
	fb.front.CopyFrom(fb.back)
}
