package reader

import "fmt"

// SpanPolicy records which rule produced a payload span.
type SpanPolicy int

const (
	// PolicyNextHeader bounds the payload by the following local header signature.
	PolicyNextHeader SpanPolicy = iota
	// PolicyDeclaredSize bounds the payload by the header's compressed size.
	PolicyDeclaredSize
	// PolicyTailLimit bounds the payload by a fixed limit, clipped to the buffer.
	PolicyTailLimit
)

func (p SpanPolicy) String() string {
	switch p {
	case PolicyNextHeader:
		return "next-header"
	case PolicyDeclaredSize:
		return "declared-size"
	case PolicyTailLimit:
		return "tail-limit"
	}
	return fmt.Sprintf("SpanPolicy(%d)", int(p))
}

// Span is a half-open byte range [Start, End) within the raw buffer.
type Span struct {
	Start  int
	End    int
	Policy SpanPolicy
}

// Len returns the number of payload bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d) %s", s.Start, s.End, s.Policy)
}

// Slice returns the bytes of b covered by s. It never copies.
func (s Span) Slice(b []byte) []byte { return b[s.Start:s.End] }

// InferSpan determines the payload range of the entry whose local header is
// at offset. h may be nil when the header could not be decoded. next is the
// offset of the following local header, or -1 if there is none.
//
// The next header wins whenever one exists. Otherwise the declared compressed
// size is used, and when that is unusable the payload runs for at most
// tailLimit bytes. The result always lies within b and never has End < Start.
func InferSpan(b []byte, offset int, h *LocalEntryHeader, next int, tailLimit int) Span {
	if tailLimit <= 0 {
		tailLimit = DefaultTailLimit
	}
	start := offset + fileHeaderLen
	if h != nil {
		start += int(h.NameLen) + int(h.ExtraLen)
	}

	var s Span
	switch {
	case next >= 0:
		s = Span{Start: start, End: next, Policy: PolicyNextHeader}
	case declaredSizeUsable(b, start, h):
		s = Span{Start: start, End: start + int(h.CompressedSize), Policy: PolicyDeclaredSize}
	default:
		s = Span{Start: start, End: start + tailLimit, Policy: PolicyTailLimit}
	}
	return s.clip(len(b))
}

func declaredSizeUsable(b []byte, start int, h *LocalEntryHeader) bool {
	if h == nil {
		return false
	}
	if h.CompressedSize == 0 && h.HasDataDescriptor() {
		return false
	}
	return int64(start)+int64(h.CompressedSize) <= int64(len(b))
}

func (s Span) clip(n int) Span {
	s.Start = max(0, min(s.Start, n))
	s.End = max(s.Start, min(s.End, n))
	return s
}
