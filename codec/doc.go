// Package codec serializes specification trees to a compact MessagePack
// wire form and reconstructs them through the specification factories.
//
// The wire form mirrors the tree shape: criterion nodes carry an attribute
// path, an operator name and a reference value, junction nodes carry their
// children. Payloads optionally compress with ZStandard, and the decoders
// recognize compressed payloads by the frame magic, so no out-of-band flag
// travels with the bytes.
//
//	data, err := codec.EncodeFilter(queryspec.Eq("name", "Ada"))
//	if err != nil {
//		return err
//	}
//	spec, err := codec.DecodeFilter(data)
//
// Decoded trees are built through factories; callers substituting their own
// specification types pass WithFilterFactory or WithOrderFactory. Value
// references encode as their URL, and DecodeFilter restores the referenced
// values when a resolver is configured with WithResolver.
package codec
