package context

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
)

func TestCurrentSetGetToMap(t *testing.T) {
	RegisterTestingT(t)

	current := NewCurrent()
	current.Set("request_id", "abc-123")
	current.Set("method", "GET")

	Expect(current.Get("request_id")).To(Equal("abc-123"))

	snapshot := current.ToMap()
	Expect(snapshot).To(HaveKeyWithValue("request_id", "abc-123"))
	Expect(snapshot).To(HaveKeyWithValue("method", "GET"))

	// The snapshot is a copy, later writes must not leak into it.
	current.Set("method", "POST")
	Expect(snapshot["method"]).To(Equal("GET"))
}

func TestCurrentContextRoundTrip(t *testing.T) {
	RegisterTestingT(t)

	current := NewCurrent()
	current.Set("request_id", "abc-123")

	ctx := SetCurrent(context.Background(), current)

	got, ok := FromContext(ctx)
	Expect(ok).To(BeTrue())
	Expect(got.Get("request_id")).To(Equal("abc-123"))

	_, ok = FromContext(context.Background())
	Expect(ok).To(BeFalse())
}
