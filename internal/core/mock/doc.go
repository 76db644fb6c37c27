// Package mock provides test doubles for the core ports.
// Each double takes optional function fields and falls back to a
// deterministic default, recording every call for assertions.
package mock
