package selector

import "testing"

func TestParseTable(t *testing.T) {
	cases := []struct {
		in   string
		want Parsed
	}{
		{"<@123>", Parsed{Kind: KindUserByID, ID: "123"}},
		{"<@!123>", Parsed{Kind: KindUserByID, ID: "123"}},
		{"<@&456>", Parsed{Kind: KindRoleByID, ID: "456"}},
		{"|Moderators", Parsed{Kind: KindRoleByName, Name: "Moderators"}},
		{"/789", Parsed{Kind: KindRoleByID, ID: "789"}},
		{"!everyone", Parsed{Kind: KindEveryone}},
		{"42", Parsed{Kind: KindUserByID, ID: "42"}},
		{"!foo", Parsed{Kind: KindError}},
		{"xyz", Parsed{Kind: KindError}},
		{"", Parsed{Kind: KindError}},
		{"|", Parsed{Kind: KindError}},
		{"/abc", Parsed{Kind: KindError}},
		{"<@&>", Parsed{Kind: KindError}},
		{"<@&!123>", Parsed{Kind: KindError}},
		{"<@12a>", Parsed{Kind: KindError}},
		{"12 3", Parsed{Kind: KindError}},
	}
	for _, tc := range cases {
		got := Parse(tc.in)
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseIsTotal(t *testing.T) {
	// a grab bag of junk must never panic and always land on a kind
	for _, in := range []string{"<@>", "<@&abc>", "||", "//", "!", "<@123", "@123>", " 42"} {
		p := Parse(in)
		if p.Kind != KindError {
			t.Fatalf("Parse(%q) = %+v, want error", in, p)
		}
	}
}
