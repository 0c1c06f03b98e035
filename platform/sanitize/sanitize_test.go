package sanitize

import (
	"reflect"
	"testing"
)

func TestTextStripsTagsAndEncodedTags(t *testing.T) {
	got := Text("  Call <b>back</b>   &lt;script&gt;alert(1)&lt;/script&gt; tomorrow ")
	want := "Call back alert(1) tomorrow"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTagsDedupesCaseInsensitive(t *testing.T) {
	got := Tags([]string{"Enterprise", " enterprise ", "", "<i>hot</i>", "Hot"})
	want := []string{"Enterprise", "hot"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
