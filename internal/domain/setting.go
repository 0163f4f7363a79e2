package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"
)

type SettingKind string

const (
	SettingTitle       SettingKind = "title"
	SettingSlowMode    SettingKind = "slowmode"
	SettingPassword    SettingKind = "password"
	SettingTextbox     SettingKind = "textbox"
	SettingAspectRatio SettingKind = "aspect_ratio"
	SettingSpectating  SettingKind = "spectating"
)

const (
	MaxTitleLen    = 150
	MaxSlowMode    = 60 * time.Second
	MaxPasswordLen = 64
)

// AspectRatios is the fixed set accepted by the courtroom.
var AspectRatios = []string{"3:2", "4:3", "16:9", "16:10"}

// AdminSetting is a single room setting change requested by an admin.
type AdminSetting struct {
	Kind  SettingKind `json:"kind"`
	Value string      `json:"value"`
}

// Payload validates the setting and returns the partial room-admin object
// understood by the courtroom.
func (s AdminSetting) Payload() (map[string]any, error) {
	switch s.Kind {
	case SettingTitle:
		if utf8.RuneCountInString(s.Value) > MaxTitleLen {
			return nil, fmt.Errorf("%w: title longer than %d characters", ErrInvalidArgument, MaxTitleLen)
		}
		return map[string]any{"title": s.Value}, nil
	case SettingSlowMode:
		d, err := parseSeconds(s.Value)
		if err != nil || d < 0 || d > MaxSlowMode {
			return nil, fmt.Errorf("%w: slowmode must be 0-%ds", ErrInvalidArgument, int(MaxSlowMode.Seconds()))
		}
		return map[string]any{"slowModeCooldown": int(d.Seconds())}, nil
	case SettingPassword:
		if utf8.RuneCountInString(s.Value) > MaxPasswordLen {
			return nil, fmt.Errorf("%w: password longer than %d characters", ErrInvalidArgument, MaxPasswordLen)
		}
		return map[string]any{"password": s.Value}, nil
	case SettingTextbox:
		if s.Value == "" {
			return nil, fmt.Errorf("%w: textbox style is empty", ErrInvalidArgument)
		}
		return map[string]any{"textBoxAppearance": s.Value}, nil
	case SettingAspectRatio:
		if !slices.Contains(AspectRatios, s.Value) {
			return nil, fmt.Errorf("%w: aspect ratio %q not in %v", ErrInvalidArgument, s.Value, AspectRatios)
		}
		return map[string]any{"aspectRatio": s.Value}, nil
	case SettingSpectating:
		switch s.Value {
		case "on", "true":
			return map[string]any{"restrictSpectating": false}, nil
		case "off", "false":
			return map[string]any{"restrictSpectating": true}, nil
		}
		return nil, fmt.Errorf("%w: spectating must be on or off", ErrInvalidArgument)
	}
	return nil, fmt.Errorf("%w: unknown setting %q", ErrInvalidArgument, s.Kind)
}

// parseSeconds accepts a bare number of seconds or a Go duration string.
func parseSeconds(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
