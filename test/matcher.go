package test

import (
	"fmt"

	"go.uber.org/mock/gomock"
)

type predicateMatcher[T any] struct {
	predicate func(T) bool
	last      any
}

func (p *predicateMatcher[T]) Matches(x any) bool {
	p.last = x
	v, ok := x.(T)
	return ok && p.predicate(v)
}

func (p *predicateMatcher[T]) String() string {
	var zero T
	return fmt.Sprintf("is a %T matching the predicate (last got %+v)", zero, p.last)
}

// Match returns a gomock matcher accepting arguments of type T for which m returns true
func Match[T any](m func(v T) bool) gomock.Matcher {
	return &predicateMatcher[T]{predicate: m}
}
