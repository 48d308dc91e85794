package helpers

import (
	"errors"
	"net/url"
	"strings"
)

// Hostname returns the lowercase hostname of a raw URL, without port.
func Hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", errors.New("URL has no hostname")
	}
	return host, nil
}

// RegisteredDomain strips a leading "www." so "www.shop.example" and
// "shop.example" resolve to the same site key.
func RegisteredDomain(rawURL string) (string, error) {
	host, err := Hostname(rawURL)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(host, "www."), nil
}
