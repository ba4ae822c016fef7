// Package uri encodes and parses "bitcoin:" scheme payment URIs (BIP 21
// style), mirroring original_source/bitforge/uri.py's URI class: an address
// plus an optional amount, message, label, and payment-request reference,
// with any other query parameters preserved as opaque extras.
package uri

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/pkt-cash/scriptforge/btcutil"
	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/chaincfg"
)

// Scheme is the URI scheme this package parses and emits.
const Scheme = "bitcoin"

// Err is the error type for malformed payment URIs.
var Err er.ErrorType = er.NewErrorType("uri.Err")

var (
	// ErrInvalidScheme is returned when the URI's scheme is not "bitcoin:".
	ErrInvalidScheme = Err.Code("ErrInvalidScheme")

	// ErrMissingAddress is returned when a URI carries no address.
	ErrMissingAddress = Err.Code("ErrMissingAddress")

	// ErrInvalidAmount is returned when the amount query parameter does
	// not parse as a decimal BTC value.
	ErrInvalidAmount = Err.Code("ErrInvalidAmount")
)

// URI is a parsed "bitcoin:" payment URI.
type URI struct {
	Address btcutil.Address

	// Amount is the payment amount, or nil if the URI carried none.
	Amount *btcutil.Amount

	Message string
	Label   string
	R       string

	// Extras holds any query parameters other than amount, message,
	// label, and r, keyed by parameter name.
	Extras map[string]string
}

// Parse decodes a "bitcoin:" URI, resolving its address against net.
func Parse(uri string, net *chaincfg.Params) (*URI, er.R) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, ErrInvalidScheme.New("malformed URI", er.E(err))
	}
	if parsed.Scheme != Scheme {
		return nil, ErrInvalidScheme.New("URI does not use the bitcoin: scheme", nil)
	}

	// A bitcoin: URI's address sits where a URL's opaque part or host
	// would: "bitcoin:<address>?<query>". url.Parse puts it in Opaque
	// for a URI with no "//" authority marker, or Host/Path otherwise.
	addrStr := parsed.Opaque
	if addrStr == "" {
		addrStr = parsed.Host + parsed.Path
	}
	if addrStr == "" {
		return nil, ErrMissingAddress.New("URI has no address", nil)
	}

	addr, aerr := btcutil.DecodeAddress(addrStr, net)
	if aerr != nil {
		return nil, aerr
	}

	values := parsed.Query()
	out := &URI{
		Address: addr,
		Extras:  make(map[string]string),
	}

	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v := vs[0]
		switch key {
		case "amount":
			btc, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				return nil, ErrInvalidAmount.New("amount is not a decimal number", er.E(perr))
			}
			amt, aerr := btcutil.NewAmount(btc)
			if aerr != nil {
				return nil, ErrInvalidAmount.New("amount out of range", aerr)
			}
			out.Amount = &amt
		case "message":
			out.Message = v
		case "label":
			out.Label = v
		case "r":
			out.R = v
		default:
			out.Extras[key] = v
		}
	}

	return out, nil
}

// IsValid reports whether uri parses as a well-formed "bitcoin:" payment
// URI against net.
func IsValid(uri string, net *chaincfg.Params) bool {
	_, err := Parse(uri, net)
	return err == nil
}

// String reassembles the URI. Every query parameter present (amount,
// message, label, r and the extras) is emitted in one query sorted by key.
func (u *URI) String() string {
	query := make(url.Values)
	for k, v := range u.Extras {
		query.Set(k, v)
	}
	if u.Amount != nil {
		query.Set("amount", strconv.FormatFloat(u.Amount.ToBTC(), 'f', -1, 64))
	}
	if u.Message != "" {
		query.Set("message", u.Message)
	}
	if u.Label != "" {
		query.Set("label", u.Label)
	}
	if u.R != "" {
		query.Set("r", u.R)
	}

	out := Scheme + ":" + u.Address.EncodeAddress()
	if len(query) == 0 {
		return out
	}

	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	enc := url.Values{}
	for _, k := range keys {
		enc[k] = query[k]
	}
	return out + "?" + enc.Encode()
}
