// Package base64 exposes base64 encoding and decoding as an installable
// pyrite module.
package base64

import (
	"encoding/base64"

	"github.com/pyritelang/pyrite/pkg/eval"
	"github.com/pyritelang/pyrite/pkg/eval/errs"
)

// Ns is the namespace bound by install_('base64'). Values are strings on
// both sides; decoded data is returned as a string without UTF-8
// validation, so binary payloads round-trip.
var Ns = eval.NsBuilder{}.
	AddGoFns(map[string]any{
		"b64encode_":         encoderFn(base64.StdEncoding),
		"b64decode_":         decoderFn(base64.StdEncoding),
		"urlsafe_b64encode_": encoderFn(base64.URLEncoding),
		"urlsafe_b64decode_": decoderFn(base64.URLEncoding),
	}).Ns()

func encoderFn(enc *base64.Encoding) func(string) string {
	return func(s string) string {
		return enc.EncodeToString([]byte(s))
	}
}

func decoderFn(enc *base64.Encoding) func(string) (string, error) {
	return func(s string) (string, error) {
		b, err := enc.DecodeString(s)
		if err != nil {
			return "", errs.Newf(errs.Value, "invalid base64 data: %v", err)
		}
		return string(b), nil
	}
}
