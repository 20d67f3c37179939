package crypto

import "testing"

func TestAvatarURL(t *testing.T) {
	// md5("myemailaddress@example.com"), the reference value from Gravatar's docs.
	want := "https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=200&r=pg&d=mm"

	if got := AvatarURL("myemailaddress@example.com"); got != want {
		t.Errorf("AvatarURL() = %q, want %q", got, want)
	}
	if got := AvatarURL("  MyEmailAddress@example.com "); got != want {
		t.Errorf("AvatarURL() normalised = %q, want %q", got, want)
	}
}

func TestAvatarURLDeterministic(t *testing.T) {
	if AvatarURL("a@x.com") != AvatarURL("a@x.com") {
		t.Error("AvatarURL() not deterministic")
	}
	if AvatarURL("a@x.com") == AvatarURL("b@x.com") {
		t.Error("AvatarURL() collided for different emails")
	}
}
