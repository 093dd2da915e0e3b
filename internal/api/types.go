package api

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samcharles93/cybertag/internal/cardjson"
)

// EncodeRequest builds a tag image from a card document.
type EncodeRequest struct {
	// Card is a YGOPRODeck-style card document.
	Card json.RawMessage `json:"card"`
	// Description overrides the document's "desc" field when set.
	Description *string `json:"description,omitempty"`
	// Profile names the target tag model; empty uses the server default.
	Profile string `json:"profile,omitempty"`
}

// ImageRequest carries an encoded tag image. []byte fields travel as base64.
type ImageRequest struct {
	Image []byte `json:"image"`
}

// SignRequest asks the server's authority to sign a tag image.
type SignRequest struct {
	Image      []byte     `json:"image"`
	Duelist    *uuid.UUID `json:"duelist,omitempty"`
	Deck       *uuid.UUID `json:"deck,omitempty"`
	Supersede  bool       `json:"supersede,omitempty"`
	Tournament bool       `json:"tournament,omitempty"`
	// TTL is a Go duration string such as "720h".
	TTL     string `json:"ttl,omitempty"`
	Profile string `json:"profile,omitempty"`
}

// TagResponse describes an encoded tag image.
type TagResponse struct {
	ID       string `json:"id"`
	Image    []byte `json:"image"`
	Size     int    `json:"size"`
	Profile  string `json:"profile,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Hash     string `json:"hash"`
	HashAlgo string `json:"hash_algorithm"`
}

// DecodeResponse is the readable content of a tag image.
type DecodeResponse struct {
	ID          string             `json:"id"`
	Size        int                `json:"size"`
	Card        *cardjson.Document `json:"card"`
	Description string             `json:"description,omitempty"`
	Signatures  []SignatureView    `json:"signatures"`
	Unknown     []RecordView       `json:"unknown_records,omitempty"`
	Hash        string             `json:"hash"`
	HashAlgo    string             `json:"hash_algorithm"`
	Fits        map[string]bool    `json:"fits"`
}

type SignatureView struct {
	Version   uint8      `json:"version"`
	Flags     string     `json:"flags"`
	Algorithm string     `json:"algorithm"`
	Authority string     `json:"authority"`
	IssuedAt  uint32     `json:"issued_at"`
	Expiry    uint32     `json:"expiry,omitempty"`
	Duelist   *uuid.UUID `json:"duelist,omitempty"`
	Deck      *uuid.UUID `json:"deck,omitempty"`
}

type RecordView struct {
	Type    string `json:"type"`
	Version uint8  `json:"version"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
}

type VerifyResponse struct {
	Results []VerifyResult `json:"results"`
	// Valid is true when at least one signature verified and is in force.
	Valid bool `json:"valid"`
}

type VerifyResult struct {
	Authority  string        `json:"authority"`
	Name       string        `json:"name,omitempty"`
	Valid      bool          `json:"valid"`
	Superseded bool          `json:"superseded,omitempty"`
	Error      string        `json:"error,omitempty"`
	Signature  SignatureView `json:"signature"`
}

type SizeResponse struct {
	Flags   string `json:"flags"`
	Payload int    `json:"payload"`
	Framed  int    `json:"framed"`
}

type ProfileView struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ResponseError struct {
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}
