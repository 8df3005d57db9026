package buf

import "io"

// Callback signals completion of an asynchronous hand-off. It is invoked
// exactly once, with a nil error on success.
type Callback func(err error)

// Sink consumes the readable bytes of a span. The write is asynchronous and
// may suspend internally; the callback fires after the bytes are handed off.
type Sink interface {
	Write(last bool, span *Span, cb Callback)
}

// WriterSink adapts an io.Writer into a Sink. Writes consume the span and
// complete synchronously.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{
		w: w,
	}
}

func (o *WriterSink) Write(last bool, span *Span, cb Callback) {
	for span.HasRemaining() {
		n, err := o.w.Write(span.Bytes())

		span.Skip(n)

		if err != nil {
			cb(err)
			return
		}
	}

	cb(nil)
}
