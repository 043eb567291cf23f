package util

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestCursorRoundTrip(t *testing.T) {
	RegisterTestingT(t)
	os.Setenv("CURSOR_SECRET_KEY", "cursor-test-key")

	token := EncodeCursor("2026-08-30T10:00:00Z", 42)

	datetime, id, err := DecodeCursor(token)

	Expect(err).To(BeNil())
	Expect(datetime).To(Equal("2026-08-30T10:00:00Z"))
	Expect(id).To(Equal(42))
}

// Clients echo next_cursor back as a query parameter, so every token
// must survive URL decoding byte for byte.
func TestCursorSurvivesQueryStringRoundTrip(t *testing.T) {
	RegisterTestingT(t)
	os.Setenv("CURSOR_SECRET_KEY", "cursor-test-key")

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 64; i++ {
		token := EncodeCursor(base.Add(time.Duration(i)*time.Second).Format(time.RFC3339Nano), i)

		values, err := url.ParseQuery(fmt.Sprintf("cursor=%s", token))
		Expect(err).To(BeNil())

		datetime, id, err := DecodeCursor(values.Get("cursor"))

		Expect(err).To(BeNil(), "token %q", token)
		Expect(id).To(Equal(i))
		Expect(datetime).ToNot(BeEmpty())
	}
}

func TestDecodeCursorRejectsTamperedPayload(t *testing.T) {
	RegisterTestingT(t)
	os.Setenv("CURSOR_SECRET_KEY", "cursor-test-key")

	token := EncodeCursor("2026-08-30T10:00:00Z", 42)
	parts := strings.Split(token, ".")

	forged := EncodeCursor("2026-08-30T10:00:00Z", 43)
	forgedPayload := strings.Split(forged, ".")[0]

	_, _, err := DecodeCursor(forgedPayload + "." + parts[1])

	Expect(err).To(HaveOccurred())
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	RegisterTestingT(t)

	for _, token := range []string{"", "no-dot", "a.b.c"} {
		_, _, err := DecodeCursor(token)
		Expect(err).To(HaveOccurred(), "token %q", token)
	}
}

func TestDecodeCursorRejectsOtherKey(t *testing.T) {
	RegisterTestingT(t)

	os.Setenv("CURSOR_SECRET_KEY", "first-key")
	token := EncodeCursor("2026-08-30T10:00:00Z", 42)

	os.Setenv("CURSOR_SECRET_KEY", "second-key")
	_, _, err := DecodeCursor(token)

	Expect(err).To(HaveOccurred())
}
