package alias

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testResolver() *Resolver {
	return NewResolver([]Entry{
		{Canonical: "bus", Aliases: []string{"公交车", "bus", "巴士"}},
		{Canonical: "wallet", Aliases: []string{"钱包", "purse"}},
		{Canonical: "cell phone", Aliases: []string{"手机", "Mobile Phone", "phone"}},
		{Canonical: "smartphone", Aliases: []string{"智能手机", "phone"}},
		{Canonical: "keys", Aliases: []string{"钥匙", "key"}},
		{Canonical: "bunch of keys", Aliases: []string{"一串钥匙"}},
		{Canonical: "remote"},
	})
}

func TestResolve_ExactCanonical(t *testing.T) {
	res := testResolver().Resolve("wallet")

	if res.Tier != TierExact {
		t.Errorf("Expected exact tier, got %v", res.Tier)
	}
	if !reflect.DeepEqual(res.Names, []string{"wallet"}) {
		t.Errorf("Expected [wallet], got %v", res.Names)
	}
}

func TestResolve_ExactAlias(t *testing.T) {
	res := testResolver().Resolve("公交车")

	if res.Tier != TierExact || !reflect.DeepEqual(res.Names, []string{"bus"}) {
		t.Errorf("Expected exact [bus], got %v %v", res.Tier, res.Names)
	}
}

func TestResolve_NormalizesQueryAndAliases(t *testing.T) {
	res := testResolver().Resolve("  MOBILE phone ")

	if res.Tier != TierExact || !reflect.DeepEqual(res.Names, []string{"cell phone"}) {
		t.Errorf("Expected exact [cell phone], got %v %v", res.Tier, res.Names)
	}
	if res.Query != "mobile phone" {
		t.Errorf("Expected normalized query, got %q", res.Query)
	}
}

func TestResolve_ExactCollectsAllOverlaps(t *testing.T) {
	res := testResolver().Resolve("phone")

	want := []string{"cell phone", "smartphone"}
	if res.Tier != TierExact || !reflect.DeepEqual(res.Names, want) {
		t.Errorf("Expected exact %v, got %v %v", want, res.Tier, res.Names)
	}
}

func TestResolve_SubstringOnlyWhenNoExact(t *testing.T) {
	r := testResolver()

	// "钥匙" equals an alias of keys, so "一串钥匙" (which contains it) is not consulted.
	res := r.Resolve("钥匙")
	if res.Tier != TierExact || !reflect.DeepEqual(res.Names, []string{"keys"}) {
		t.Errorf("Expected exact [keys], got %v %v", res.Tier, res.Names)
	}

	// "一串" is only part of an alias.
	res = r.Resolve("一串")
	if res.Tier != TierSubstring || !reflect.DeepEqual(res.Names, []string{"bunch of keys"}) {
		t.Errorf("Expected substring [bunch of keys], got %v %v", res.Tier, res.Names)
	}
}

func TestResolve_SubstringDedupesInTableOrder(t *testing.T) {
	res := testResolver().Resolve("手机")

	// exact match on cell phone's alias wins
	if res.Tier != TierExact {
		t.Fatalf("Expected exact tier, got %v", res.Tier)
	}

	res = testResolver().Resolve("hon")
	want := []string{"cell phone", "smartphone"}
	if res.Tier != TierSubstring || !reflect.DeepEqual(res.Names, want) {
		t.Errorf("Expected substring %v, got %v %v", want, res.Tier, res.Names)
	}
}

func TestResolve_Literal(t *testing.T) {
	res := testResolver().Resolve("Umbrella")

	if res.Tier != TierLiteral || !reflect.DeepEqual(res.Names, []string{"umbrella"}) {
		t.Errorf("Expected literal [umbrella], got %v %v", res.Tier, res.Names)
	}
	if res.AliasMatched() {
		t.Error("Literal resolution should not report an alias match")
	}
}

func TestResolve_EmptyTable(t *testing.T) {
	res := NewResolver(nil).Resolve("bus")

	if res.Tier != TierLiteral || !reflect.DeepEqual(res.Names, []string{"bus"}) {
		t.Errorf("Expected literal [bus], got %v %v", res.Tier, res.Names)
	}
}

func TestDisplayName(t *testing.T) {
	r := testResolver()

	tests := []struct {
		canonical string
		want      string
	}{
		{"bus", "公交车 (bus)"},
		{"wallet", "钱包 (wallet)"},
		{"remote", "remote"},
		{"umbrella", "umbrella"},
	}

	for _, tt := range tests {
		if got := r.DisplayName(tt.canonical); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, expected %q", tt.canonical, got, tt.want)
		}
	}
}

func TestNewResolver_DuplicateCanonicalKeepsLastAliases(t *testing.T) {
	r := NewResolver([]Entry{
		{Canonical: "cup", Aliases: []string{"杯子"}},
		{Canonical: "bus", Aliases: []string{"公交车", "bus"}},
		{Canonical: "cup", Aliases: []string{"mug"}},
	})

	if r.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", r.Len())
	}
	if got := r.DisplayName("cup"); got != "mug (cup)" {
		t.Errorf("Expected last entry to win, got %q", got)
	}
	if got := r.Resolve("杯子"); got.AliasMatched() {
		t.Errorf("Expected replaced alias to be dropped, got %v", got.Names)
	}
	if got := r.Resolve("u"); !reflect.DeepEqual(got.Names, []string{"cup", "bus"}) {
		t.Errorf("Expected cup to keep its first position, got %v", got.Names)
	}
}

func TestLocalName(t *testing.T) {
	r := testResolver()

	if got, ok := r.LocalName("wallet"); !ok || got != "钱包" {
		t.Errorf("Expected 钱包, got %q, %v", got, ok)
	}
	if got, ok := r.LocalName("umbrella"); ok || got != "" {
		t.Errorf("Expected no local name, got %q, %v", got, ok)
	}
}

func TestLoad_DuplicateKeyMatchesJSONDecoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	data := `{"cup": ["杯子"], "bus": ["公交车"], "cup": ["mug"]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	entries, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := NewResolver(entries).DisplayName("cup"); got != "mug (cup)" {
		t.Errorf("Expected last value to win, got %q", got)
	}
}

func TestParse(t *testing.T) {
	entries, warnings, err := Parse([]byte(`{"bus": ["公交车", "bus"], "bad": 5, "person": ["人", "person"]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Canonical != "bus" || entries[1].Canonical != "person" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", warnings)
	}

	if got := NewResolver(entries).Resolve("人"); !reflect.DeepEqual(got.Names, []string{"person"}) {
		t.Errorf("Expected [person], got %v", got.Names)
	}
}
