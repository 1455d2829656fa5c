package model

import (
	"fmt"
	"strings"
)

type Platform string

const (
	PlatformX Platform = "X"
)

func ParsePlatform(s string) (Platform, error) {
	switch strings.ToUpper(s) {
	case string(PlatformX), "TWITTER":
		return PlatformX, nil
	default:
		return PlatformX, fmt.Errorf("unknown platform: %s", s)
	}
}

// Domains returns the hosts a platform serves posts from.
func (p Platform) Domains() []string {
	switch p {
	case PlatformX:
		return []string{"twitter.com", "x.com"}
	default:
		return nil
	}
}
