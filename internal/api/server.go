package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/cybertag/internal/authority"
	"github.com/samcharles93/cybertag/internal/cardjson"
	"github.com/samcharles93/cybertag/internal/contenthash"
	"github.com/samcharles93/cybertag/internal/logger"
	"github.com/samcharles93/cybertag/internal/version"
	"github.com/samcharles93/cybertag/pkg/sig"
	"github.com/samcharles93/cybertag/pkg/tag"
)

// Config wires the dependencies of a Server. Zero values are replaced with
// defaults by NewServer.
type Config struct {
	Hasher  contenthash.Hasher
	Keys    *authority.Keyring
	Signer  *authority.Authority
	Profile tag.Profile
	Store   *ImageStore
	Logger  logger.Logger
	Clock   func() time.Time
}

type Server struct {
	hasher  contenthash.Hasher
	keys    *authority.Keyring
	signer  *authority.Authority
	profile tag.Profile
	store   *ImageStore
	log     logger.Logger
	clock   func() time.Time
}

func NewServer(cfg Config) *Server {
	s := &Server{
		hasher:  cfg.Hasher,
		keys:    cfg.Keys,
		signer:  cfg.Signer,
		profile: cfg.Profile,
		store:   cfg.Store,
		log:     cfg.Logger,
		clock:   cfg.Clock,
	}
	if s.hasher == nil {
		s.hasher = contenthash.Default()
	}
	if s.keys == nil {
		s.keys = authority.NewKeyring()
	}
	if s.store == nil {
		s.store = NewImageStore(1024)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)

	e.POST("/v1/tags/encode", s.handleEncode)
	e.POST("/v1/tags/decode", s.handleDecode)
	e.POST("/v1/tags/verify", s.handleVerify)
	e.POST("/v1/tags/sign", s.handleSign)
	e.GET("/v1/tags/:id", s.handleGetImage)
	e.DELETE("/v1/tags/:id", s.handleDeleteImage)

	e.GET("/v1/signatures/size", s.handleSignatureSize)
	e.GET("/v1/profiles", s.handleProfiles)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.String()})
}

func (s *Server) handleEncode(c *echo.Context) error {
	req, err := decodeJSON[EncodeRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err)
	}
	if len(req.Card) == 0 {
		return writeBadRequest(c, newInvalidRequest("card", "card document is required"))
	}
	entry, err := cardjson.DecodeEntry(req.Card)
	if err != nil {
		return writeBadRequest(c, newInvalidRequest("card", err.Error()))
	}
	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		return writeBadRequest(c, err)
	}

	img := &tag.Image{Card: entry.Card, Description: entry.Description}
	if req.Description != nil {
		img.Description = *req.Description
	}
	return s.respondImage(c, img, profile)
}

func (s *Server) handleDecode(c *echo.Context) error {
	req, err := decodeJSON[ImageRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err)
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return writeImageError(c, err)
	}

	doc, err := cardjson.FromCard(img.Card)
	if err != nil {
		return writeImageError(c, err)
	}
	hash, err := img.ContentHash(s.hasher.Sum256)
	if err != nil {
		return writeImageError(c, err)
	}

	resp := DecodeResponse{
		ID:          contenthash.CIDString(req.Image),
		Size:        len(req.Image),
		Card:        doc,
		Description: img.Description,
		Signatures:  make([]SignatureView, 0, len(img.Signatures)),
		Hash:        hex.EncodeToString(hash[:]),
		HashAlgo:    s.hasher.Name(),
		Fits:        fitsMap(len(req.Image)),
	}
	for _, sg := range img.Signatures {
		resp.Signatures = append(resp.Signatures, signatureView(sg))
	}
	for _, rec := range img.Unknown {
		resp.Unknown = append(resp.Unknown, recordView(rec))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleVerify(c *echo.Context) error {
	req, err := decodeJSON[ImageRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err)
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return writeImageError(c, err)
	}
	results, err := authority.VerifyImage(img, s.keys, s.hasher, s.clock())
	if err != nil {
		return writeImageError(c, err)
	}

	resp := VerifyResponse{Results: make([]VerifyResult, 0, len(results))}
	for _, r := range results {
		out := VerifyResult{
			Authority:  hex.EncodeToString(r.Signature.Authority[:]),
			Name:       r.Authority,
			Valid:      r.Valid(),
			Superseded: r.Superseded,
			Signature:  signatureView(r.Signature),
		}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		resp.Valid = resp.Valid || out.Valid
		resp.Results = append(resp.Results, out)
	}
	s.log.Debug("verified tag", "card", img.Card.ID, "signatures", len(results), "valid", resp.Valid)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSign(c *echo.Context) error {
	if s.signer == nil {
		return writeError(c, http.StatusServiceUnavailable, "server_error", ErrNoAuthority.Error(), "", "no_authority")
	}
	req, err := decodeJSON[SignRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err)
	}
	opts := authority.IssueOptions{
		Duelist:    req.Duelist,
		Deck:       req.Deck,
		Supersede:  req.Supersede,
		Tournament: req.Tournament,
	}
	if req.TTL != "" {
		ttl, err := time.ParseDuration(req.TTL)
		if err != nil || ttl <= 0 {
			return writeBadRequest(c, newInvalidRequest("ttl", fmt.Sprintf("invalid duration %q", req.TTL)))
		}
		opts.TTL = ttl
	}
	profile, err := s.resolveProfile(req.Profile)
	if err != nil {
		return writeBadRequest(c, err)
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return writeImageError(c, err)
	}

	signed, err := s.signer.Issue(img, opts, s.hasher, s.clock())
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "", "")
	}
	img.Signatures = append(img.Signatures, signed)
	s.log.Info("signed tag", "card", img.Card.ID, "authority", s.signer.Name, "flags", signed.WireFlags().String())
	return s.respondImage(c, img, profile)
}

func (s *Server) handleGetImage(c *echo.Context) error {
	data, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "tag image not found")
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleDeleteImage(c *echo.Context) error {
	if !s.store.Delete(c.Param("id")) {
		return writeNotFound(c, "tag image not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// handleSignatureSize reports the record size for a signature bound to a
// duelist and/or deck, for capacity planning before a tag is written.
func (s *Server) handleSignatureSize(c *echo.Context) error {
	var flags sig.Flags
	for _, b := range []struct {
		param string
		flag  sig.Flags
	}{
		{"duelist", sig.FlagBoundDuelist},
		{"deck", sig.FlagBoundDeck},
	} {
		raw := c.QueryParam(b.param)
		if raw == "" {
			continue
		}
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return writeBadRequest(c, newInvalidRequest(b.param, "expected a boolean"))
		}
		if on {
			flags |= b.flag
		}
	}
	return c.JSON(http.StatusOK, SizeResponse{
		Flags:   flags.String(),
		Payload: sig.PayloadSize(flags),
		Framed:  sig.CalcSize(flags),
	})
}

func (s *Server) handleProfiles(c *echo.Context) error {
	out := make([]ProfileView, 0, len(tag.Profiles()))
	for _, p := range tag.Profiles() {
		out = append(out, ProfileView{Name: p.Name, Capacity: p.Capacity})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) resolveProfile(name string) (tag.Profile, error) {
	if name == "" {
		return s.profile, nil
	}
	p, ok := tag.ProfileByName(name)
	if !ok {
		return tag.Profile{}, newInvalidRequest("profile", fmt.Sprintf("unknown tag profile %q", name))
	}
	return p, nil
}

// respondImage encodes img, stores it and writes a TagResponse. A zero profile
// skips the capacity check.
func (s *Server) respondImage(c *echo.Context, img *tag.Image, profile tag.Profile) error {
	var (
		data []byte
		err  error
	)
	if profile.Capacity > 0 {
		data, err = tag.EncodeFor(img, profile)
	} else {
		data, err = tag.Encode(img)
	}
	if err != nil {
		return writeImageError(c, err)
	}
	hash, err := img.ContentHash(s.hasher.Sum256)
	if err != nil {
		return writeImageError(c, err)
	}

	id := contenthash.CIDString(data)
	s.store.Save(id, data, s.clock())
	s.log.Debug("encoded tag", "card", img.Card.ID, "size", len(data), "id", id)

	return c.JSON(http.StatusOK, TagResponse{
		ID:       id,
		Image:    data,
		Size:     len(data),
		Profile:  profile.Name,
		Capacity: profile.Capacity,
		Hash:     hex.EncodeToString(hash[:]),
		HashAlgo: s.hasher.Name(),
	})
}

func decodeImage(data []byte) (*tag.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("image is required")
	}
	return tag.Decode(data)
}
