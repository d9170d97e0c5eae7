package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the payload carried by a Value.
type ValueKind uint8

const (
	ValNone ValueKind = iota
	ValBool
	ValEnum
	ValText
	ValMillipoints // absolute length or size, 1/1000 pt
	ValPercent     // relative size, Int is the percentage
	ValColor
	ValCount
)

// Color is an explicit RGB triple.
type Color struct {
	R, G, B uint8
}

// Hex returns the #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Value is a parsed property value.
type Value struct {
	Kind  ValueKind
	Int   int64
	Text  string
	Color Color
}

// Bool reports the boolean payload.
func (v Value) Bool() bool { return v.Kind == ValBool && v.Int != 0 }

func (v Value) String() string {
	switch v.Kind {
	case ValBool:
		return strconv.FormatBool(v.Int != 0)
	case ValEnum, ValCount:
		return strconv.FormatInt(v.Int, 10)
	case ValText:
		return v.Text
	case ValMillipoints:
		return strconv.FormatInt(v.Int, 10) + "mp"
	case ValPercent:
		return strconv.FormatInt(v.Int, 10) + "%"
	case ValColor:
		if v.Text != "" {
			return v.Text
		}
		return v.Color.Hex()
	}
	return ""
}

var errBadValue = errors.New("bad value")

func parseText(raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return Value{}, errBadValue
	}
	return Value{Kind: ValText, Text: raw}, nil
}

func parseBool(raw string) (Value, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "yes", "1":
		return Value{Kind: ValBool, Int: 1}, nil
	case "false", "off", "no", "0":
		return Value{Kind: ValBool}, nil
	}
	return Value{}, errBadValue
}

func parseCount(raw string) (Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return Value{}, errBadValue
	}
	return Value{Kind: ValCount, Int: n}, nil
}

func enumParser(names map[string]int64) func(string) (Value, error) {
	return func(raw string) (Value, error) {
		v, ok := names[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return Value{}, errBadValue
		}
		return Value{Kind: ValEnum, Int: v}, nil
	}
}

// parseLength accepts "1500mp", "1.5pt" or a bare millipoint count.
func parseLength(raw string) (Value, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasSuffix(s, "mp"):
		n, err := strconv.ParseInt(strings.TrimSuffix(s, "mp"), 10, 64)
		if err != nil {
			return Value{}, errBadValue
		}
		return Value{Kind: ValMillipoints, Int: n}, nil
	case strings.HasSuffix(s, "pt"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
		if err != nil {
			return Value{}, errBadValue
		}
		return Value{Kind: ValMillipoints, Int: int64(f * 1000)}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Value{}, errBadValue
	}
	return Value{Kind: ValMillipoints, Int: n}, nil
}

// parseSize is parseLength plus relative "120%".
func parseSize(raw string) (Value, error) {
	s := strings.TrimSpace(raw)
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseInt(strings.TrimSuffix(s, "%"), 10, 64)
		if err != nil || n <= 0 {
			return Value{}, errBadValue
		}
		return Value{Kind: ValPercent, Int: n}, nil
	}
	return parseLength(s)
}

var namedColors = map[string]Color{
	"black":   {0, 0, 0},
	"white":   {255, 255, 255},
	"red":     {255, 0, 0},
	"green":   {0, 128, 0},
	"blue":    {0, 0, 255},
	"yellow":  {255, 255, 0},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"maroon":  {128, 0, 0},
	"navy":    {0, 0, 128},
	"purple":  {128, 0, 128},
	"teal":    {0, 128, 128},
	"olive":   {128, 128, 0},
	"silver":  {192, 192, 192},
	"orange":  {255, 165, 0},
	"magenta": {255, 0, 255},
	"cyan":    {0, 255, 255},
}

// parseColor accepts a name, "#rrggbb" or "rgb(r,g,b)".
func parseColor(raw string) (Value, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := namedColors[s]; ok {
		return Value{Kind: ValColor, Color: c, Text: s}, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		n, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return Value{}, errBadValue
		}
		return Value{Kind: ValColor, Color: Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}}, nil
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return Value{}, errBadValue
		}
		var rgb [3]uint8
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return Value{}, errBadValue
			}
			rgb[i] = uint8(n)
		}
		return Value{Kind: ValColor, Color: Color{R: rgb[0], G: rgb[1], B: rgb[2]}}, nil
	}
	return Value{}, errBadValue
}
