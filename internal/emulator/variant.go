package emulator

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch"
)

// Variant is the instruction set variant selector. It is a closed set:
// the selector accepts all values to keep the control surface stable,
// but only the base CHIP-8 interpreter is implemented, the other
// variants are inert.
type Variant uint8

// Instruction set variants.
const (
	VariantChip8 Variant = iota
	VariantSuperChip
	VariantXOChip
)

// variantNames maps variants to their selector names. The base variant
// uses the retrogolib system identifier so flag values and log output
// match the wider retro tooling.
var variantNames = map[Variant]string{
	VariantChip8:     string(arch.CHIP8System),
	VariantSuperChip: "superchip",
	VariantXOChip:    "xochip",
}

// String returns the selector name of the variant.
func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return "unknown"
}

// next returns the variant following v in cycle order.
func (v Variant) next() Variant {
	switch v {
	case VariantChip8:
		return VariantSuperChip
	case VariantSuperChip:
		return VariantXOChip
	default:
		return VariantChip8
	}
}

// ParseVariant converts a selector name into a variant.
func ParseVariant(name string) (Variant, error) {
	for variant, variantName := range variantNames {
		if name == variantName {
			return variant, nil
		}
	}
	return VariantChip8, fmt.Errorf("unsupported variant: %s", name)
}
