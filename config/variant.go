package config

import (
	"fmt"
	"strings"
)

// Variant names.
const (
	VariantDefault   = "default"
	VariantAlternate = "alternate"
)

// variants adjust Default to form the base a file is decoded over. The
// alternate variant slows the background and makes the droplet thinner
// and glossier.
var variants = map[string]func(*File){
	VariantDefault: func(*File) {},
	VariantAlternate: func(f *File) {
		f.Background.Rate = 0.1
		f.Droplet.Thickness = 2
		f.Droplet.Roughness = 0.3
	},
}

// Variants returns the variant names.
func Variants() []string {
	return []string{VariantDefault, VariantAlternate}
}

func variantKey(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = VariantDefault
	}
	if _, ok := variants[key]; !ok {
		return "", fmt.Errorf("%w: unknown variant %q (have %s)", ErrInvalid, name, strings.Join(Variants(), ", "))
	}
	return key, nil
}

// Base returns the defaults for the named variant. The empty name is the
// default variant. Keys set in a file always win over the variant.
func Base(name string) (File, error) {
	key, err := variantKey(name)
	if err != nil {
		return File{}, err
	}
	f := Default()
	variants[key](&f)
	f.Variant = key
	return f, nil
}
