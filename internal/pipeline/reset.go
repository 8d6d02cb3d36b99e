package pipeline

// Cancel signals the in-flight attempt's token. The attempt settles asynchronously
// in the cancelled state. It returns false when nothing is in flight.
func (p *Pipeline) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.busy() || p.cancel == nil {
		return false
	}
	p.cancel()
	return true
}

// Reset cancels any in-flight attempt and returns the pipeline to an empty idle
// session: no name, no files, no artifact, no notice. The generation bump guarantees
// that a cancelled attempt's eventual completion changes nothing.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.op = nil
	p.state = StateIdle
	p.name = ""
	p.files.Clear()
	p.artifact = nil
	p.notice = Notice{Kind: NoticeNone}
	pub := p.publisher
	p.mu.Unlock()

	pub.Publish(Event{Name: "reset"})
	p.log.Info().Msg("session reset")
}

// Close aborts in-flight work, waits for it to wind down and refuses new attempts.
// Session state is left as is.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.stop()
	p.wg.Wait()
}
