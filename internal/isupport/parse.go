// Package isupport turns raw RPL_ISUPPORT (005) tokens into typed records.
package isupport

import (
	"strconv"
	"strings"

	"github.com/dalnet/ircstate/internal/casemap"
	"github.com/dalnet/ircstate/internal/modes"
)

const (
	KeyCaseMapping = "CASEMAPPING"
	KeyChanLen     = "CHANLEN"
	KeyChannelLen  = "CHANNELLEN"
	KeyChanLimit   = "CHANLIMIT"
	KeyChanModes   = "CHANMODES"
	KeyChanTypes   = "CHANTYPES"
	KeyNetwork     = "NETWORK"
	KeyNickLen     = "NICKLEN"
	KeyPrefix      = "PREFIX"
	KeyWhoX        = "WHOX"
)

// Parse interprets one token of the form KEY, KEY=VALUE or -KEY.
// Unknown keys yield an Unknown record. A recognized key whose value does
// not fit its shape yields a *TokenError.
func Parse(token string) (Parameter, error) {
	if token == "" {
		return nil, tokenError(token, "", ErrEmptyToken)
	}

	if token[0] == '-' {
		key := strings.ToUpper(token[1:])
		if key == "" {
			return nil, tokenError(token, "", ErrEmptyToken)
		}
		return Removal{param{name: key}}, nil
	}

	key, raw, hasValue := strings.Cut(token, "=")
	key = strings.ToUpper(key)
	if key == "" {
		return nil, tokenError(token, "", ErrEmptyToken)
	}
	value := unescapeValue(raw)
	p := param{name: key, value: value, hasValue: hasValue}

	switch key {
	case KeyNickLen:
		limit, err := parseLimit(p)
		if err != nil {
			return nil, tokenError(token, key, err)
		}
		return NickLen{p, limit}, nil
	case KeyChanLen, KeyChannelLen:
		limit, err := parseLimit(p)
		if err != nil {
			return nil, tokenError(token, key, err)
		}
		return ChanLen{p, limit}, nil
	case KeyChanLimit:
		limits, err := parseChanLimit(p)
		if err != nil {
			return nil, tokenError(token, key, err)
		}
		return ChanLimit{p, limits}, nil
	case KeyChanModes:
		if !hasValue {
			return nil, tokenError(token, key, ErrMissingValue)
		}
		return ChanModes{p, strings.Split(value, ",")}, nil
	case KeyPrefix:
		userModes, err := parsePrefix(p)
		if err != nil {
			return nil, tokenError(token, key, err)
		}
		return Prefix{p, userModes}, nil
	case KeyCaseMapping:
		if !hasValue {
			return nil, tokenError(token, key, ErrMissingValue)
		}
		cm, ok := casemap.Parse(value)
		if !ok {
			return nil, tokenError(token, key, ErrInvalidValue)
		}
		return CaseMapping{p, cm}, nil
	case KeyChanTypes:
		if !hasValue {
			return nil, tokenError(token, key, ErrMissingValue)
		}
		if value == "" {
			return nil, tokenError(token, key, ErrInvalidValue)
		}
		return ChanTypes{p, []byte(value)}, nil
	case KeyNetwork:
		if !hasValue || value == "" {
			return nil, tokenError(token, key, ErrMissingValue)
		}
		return Network{p, value}, nil
	case KeyWhoX:
		return WhoX{p}, nil
	}
	return Unknown{p}, nil
}

func parseLimit(p param) (int, error) {
	if !p.hasValue || p.value == "" {
		return 0, ErrMissingValue
	}
	n, err := strconv.ParseUint(p.value, 10, 31)
	if err != nil {
		return 0, ErrInvalidValue
	}
	return int(n), nil
}

// CHANLIMIT=#&:100,!:  (some servers separate pairs with ';')
func parseChanLimit(p param) (map[byte]int, error) {
	if !p.hasValue || p.value == "" {
		return nil, ErrMissingValue
	}
	limits := make(map[byte]int)
	pairs := strings.FieldsFunc(p.value, func(r rune) bool { return r == ',' || r == ';' })
	for _, pair := range pairs {
		prefixes, count, ok := strings.Cut(pair, ":")
		if !ok || prefixes == "" {
			return nil, ErrInvalidValue
		}
		if count == "" {
			continue
		}
		n, err := strconv.ParseUint(count, 10, 31)
		if err != nil {
			return nil, ErrInvalidValue
		}
		for i := 0; i < len(prefixes); i++ {
			limits[prefixes[i]] = int(n)
		}
	}
	return limits, nil
}

// PREFIX=(qaohv)~&@%+
func parsePrefix(p param) ([]modes.UserMode, error) {
	if !p.hasValue {
		return nil, ErrMissingValue
	}
	if p.value == "" {
		return []modes.UserMode{}, nil
	}
	end := strings.IndexByte(p.value, ')')
	if p.value[0] != '(' || end < 0 {
		return nil, ErrInvalidValue
	}
	modeChars := p.value[1:end]
	symbols := p.value[end+1:]
	if len(modeChars) != len(symbols) {
		return nil, ErrInvalidValue
	}
	out := make([]modes.UserMode, len(modeChars))
	for i := range out {
		out[i] = modes.UserMode{Mode: modeChars[i], Prefix: symbols[i]}
	}
	return out, nil
}

// unescapeValue decodes \xHH sequences, which servers use to send spaces
// and other reserved bytes inside values.
func unescapeValue(value string) string {
	if !strings.Contains(value, `\x`) {
		return value
	}
	var out strings.Builder
	out.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] == '\\' && i+3 < len(value) && value[i+1] == 'x' {
			if b, err := strconv.ParseUint(value[i+2:i+4], 16, 8); err == nil {
				out.WriteByte(byte(b))
				i += 3
				continue
			}
		}
		out.WriteByte(value[i])
	}
	return out.String()
}
