package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/cybertag/pkg/card"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
	"github.com/samcharles93/cybertag/pkg/ygobin"
)

// maxBodyBytes bounds request bodies. The largest tag image is under 1 KiB;
// card documents with long rules text stay well below this.
const maxBodyBytes = 64 << 10

func writeBadRequest(c *echo.Context, err error) error {
	var ire invalidRequestError
	if errors.As(err, &ire) {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", ire.msg, ire.param, "")
	}
	return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error(), "", "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg, "", "")
}

func writeError(c *echo.Context, status int, errType, msg, param, code string) error {
	return c.JSON(status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Code:    code,
			Param:   param,
		},
	})
}

// writeImageError maps codec failures to a 400 with a stable error code.
func writeImageError(c *echo.Context, err error) error {
	code := "invalid_image"
	switch {
	case errors.Is(err, ygobin.ErrBadMagicWord):
		code = "bad_magic"
	case errors.Is(err, ygobin.ErrTruncated):
		code = "truncated"
	case errors.Is(err, ygobin.ErrBadChecksum):
		code = "bad_checksum"
	case errors.Is(err, tag.ErrNoCard):
		code = "no_card"
	case errors.Is(err, tag.ErrTooLarge):
		code = "too_large"
	case errors.Is(err, card.ErrNameTooLong):
		code = "name_too_long"
	}
	return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error(), "image", code)
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&out); err != nil {
		return out, newInvalidRequest("", fmt.Sprintf("malformed JSON: %v", err))
	}
	return out, nil
}

func signatureView(s *sig.Signature) SignatureView {
	v := SignatureView{
		Version:   s.Version,
		Flags:     s.WireFlags().String(),
		Algorithm: s.Algorithm.String(),
		Authority: hex.EncodeToString(s.Authority[:]),
		IssuedAt:  s.IssuedAt,
		Duelist:   s.Duelist,
		Deck:      s.Deck,
	}
	if s.Expires() {
		v.Expiry = s.Expiry
	}
	return v
}

func recordView(rec ygobin.Record) RecordView {
	return RecordView{
		Type:    rec.Type.String(),
		Version: rec.Version,
		Offset:  rec.Offset,
		Length:  int(rec.Length),
	}
}

func fitsMap(n int) map[string]bool {
	out := make(map[string]bool, len(tag.Profiles()))
	for _, p := range tag.Profiles() {
		out[p.Name] = p.Fits(n)
	}
	return out
}
