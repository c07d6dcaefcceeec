package runner

import (
	"bufio"
	"context"
	"io"
	"sync"
)

type inputResult struct {
	text string
	err  error
}

// linePump reads lines on a background goroutine so that reads can be
// abandoned when the context is cancelled (e.g. on Ctrl+C).
type linePump struct {
	reader    *bufio.Reader
	inputChan chan inputResult
	startOnce sync.Once
}

func newLinePump(r io.Reader) *linePump {
	return &linePump{reader: bufio.NewReader(r)}
}

func (p *linePump) start() {
	p.startOnce.Do(func() {
		p.inputChan = make(chan inputResult)
		go p.run()
	})
}

func (p *linePump) run() {
	for {
		text, err := p.reader.ReadString('\n')

		// A last line without a newline is still a line.
		if text != "" {
			p.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				p.inputChan <- inputResult{err: err}
			}
			close(p.inputChan)
			return
		}
	}
}

// next blocks until a line is available, the input ends (io.EOF) or ctx is done.
func (p *linePump) next(ctx context.Context) (string, error) {
	p.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.inputChan:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
