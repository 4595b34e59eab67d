package engine

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/audio"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
)

// runText reads whitespace-separated dB values and shows each one as a
// tick. It returns at the end of the input or on stop.
func (e *Engine) runText(stop <-chan struct{}) {
	values := make(chan string)
	go scanValues(e.opts.Input, values, stop)

	for {
		select {
		case <-stop:
			if c, ok := e.opts.Input.(io.Closer); ok {
				util.SafeClose(c, "text input")
			}
			return
		case v, ok := <-values:
			if !ok {
				slog.Info("end of text input")
				return
			}
			db, err := strconv.ParseFloat(v, 64)
			if err != nil {
				slog.Warn("skipping unreadable level", "value", v)
				continue
			}
			if !audio.InRange(db) {
				slog.Warn("skipping level out of range", "value", v, "min", audio.FloorDB, "max", audio.CeilingDB)
				continue
			}
			e.trackSilence(db, time.Now())
			e.show(db)
		}
	}
}

// scanValues sends every token of r on out and closes it at EOF.
func scanValues(r io.Reader, out chan<- string, stop <-chan struct{}) {
	defer close(out)

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-stop:
			return
		}
	}
	if err := sc.Err(); err != nil {
		select {
		case <-stop:
		default:
			slog.Error("failed to read text input", "error", err)
		}
	}
}
