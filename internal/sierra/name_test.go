package sierra

import "testing"

func TestNormalizeFuncName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"felt252_add", "felt252_add"},
		{"struct_construct<Tuple<felt252, felt252>>", "struct_construct_Tuple_felt252__felt252__"},
		{"enum_init<core::bool, 0>", "enum_init_core__bool__0_"},
		{"store_temp<felt252>", "store_temp_felt252_"},
	}
	for _, c := range cases {
		if got := NormalizeFuncName(c.in); got != c.want {
			t.Fatalf("NormalizeFuncName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeFuncNameDeterministic(t *testing.T) {
	a := NormalizeFuncName("dup<u8>")
	b := NormalizeFuncName("dup<u8>")
	if a != b {
		t.Fatalf("normalization not deterministic: %q vs %q", a, b)
	}
}
