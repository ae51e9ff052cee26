// Package kv is the durable key/value substrate the offline components
// persist through. Every value is a string, callers layer JSON on top.
package kv

import "errors"

var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Keys() ([]string, error)
}
