package card

import (
	"errors"
	"strings"
	"testing"

	"github.com/samcharles93/cybertag/pkg/ygobin"
)

func readDescriptionRecord(t *testing.T, buf []byte) (ygobin.Header, string, error) {
	t.Helper()
	r := ygobin.NewReader(buf)
	h, err := r.ReadRecordHeader()
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	text, err := ReadDescription(r, h)
	if err != nil {
		return h, "", err
	}
	return h, text, r.CheckRecordEnd()
}

func TestDescriptionRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantVersion uint8
	}{
		{name: "empty", text: "", wantVersion: DescriptionRaw},
		{name: "short", text: "Draw 2 cards.", wantVersion: DescriptionRaw},
		{
			name:        "repetitive",
			text:        strings.Repeat("When this card is destroyed by battle, ", 8),
			wantVersion: DescriptionLZ4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var appendErr error
			buf, err := ygobin.Encode(func(w *ygobin.Writer) {
				appendErr = AppendDescription(w, tt.text)
			})
			if err != nil || appendErr != nil {
				t.Fatalf("encode: %v %v", err, appendErr)
			}
			if len(buf) != DescriptionSize(tt.text) {
				t.Fatalf("size: got %d, DescriptionSize %d", len(buf), DescriptionSize(tt.text))
			}
			h, text, err := readDescriptionRecord(t, buf)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if h.Version != tt.wantVersion {
				t.Fatalf("version: got %d, want %d", h.Version, tt.wantVersion)
			}
			if text != tt.text {
				t.Fatalf("text: got %q, want %q", text, tt.text)
			}
		})
	}
}

func TestDescriptionCompressionSavesSpace(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("Tribute 1 monster; ", 20)
	if got, raw := DescriptionSize(text), ygobin.FramedSize(4+len(text)); got >= raw {
		t.Fatalf("compressed size %d not below raw size %d", got, raw)
	}
}

func TestDescriptionTooLong(t *testing.T) {
	t.Parallel()

	w := ygobin.NewSizer()
	if err := AppendDescription(w, strings.Repeat("a", MaxDescriptionLen+1)); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("got %v, want ErrDescriptionTooLong", err)
	}
	if w.Len() != 0 {
		t.Fatalf("rejected description wrote %d bytes", w.Len())
	}
}

func TestReadDescriptionRejectsOversizedStoredLength(t *testing.T) {
	t.Parallel()

	buf, err := ygobin.Encode(func(w *ygobin.Writer) {
		w.WriteRecordHeader(ygobin.RecordDescription, DescriptionRaw)
		w.WriteUint16(40)
		w.WriteUint16(40)
		w.WriteBytes([]byte("short"))
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, _, err := readDescriptionRecord(t, buf); !errors.Is(err, ErrCorruptDescription) {
		t.Fatalf("got %v, want ErrCorruptDescription", err)
	}
}
