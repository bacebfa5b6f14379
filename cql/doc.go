// Package cql implements the textual query expression format carried in URL
// query parameters, mapping it to and from queryspec trees.
//
// A filter expression is a list of criteria separated by tildes, each
// criterion naming an attribute, an operator and one or more values:
//
//	name:starts-with:"al"~age:greater-than:21
//	status:equal-to:"open","pending"
//	discography.title:contains:"gold"
//
// Attribute and operator tokens use hyphens where identifiers use
// underscores. Multiple comma-separated values are alternatives. Prefixing
// an operator with "not-" negates the criterion. Values follow a small
// grammar: double or single quoted strings, bare numbers, inclusive numeric
// ranges such as 18-30, the booleans true and false, and quoted ISO 8601
// timestamps, which parse as time values. Quoted http(s) URLs stay strings
// here; resolution happens while building specifications.
//
// Junction expressions combine criteria with the keywords "and" and "or"
// and parentheses:
//
//	(name:equal-to:"a" or name:equal-to:"b") and age:less-than:30
//
// # Parsing
//
// ParseCriteria extracts the flat criterion list for feeding a
// queryspec.FilterDirector; CriteriaParser adapts it to the director's
// parser interface. ParseFilter parses either expression style straight into
// a specification:
//
//	spec, err := cql.ParseFilter(`age:in-range:21-65~name:starts-with:"a"`)
//
// ParseOrderTerms and ParseOrder do the same for order expressions of the
// form attr:asc~attr:desc.
//
// # Encoding
//
// EncodeFilter renders a specification back to expression text. Not every
// tree has a textual form: a disjunction encodes only when both sides are
// criteria on the same attribute and operator, merging their values, and a
// negation encodes by inverting its operator. Ordering comparisons invert
// into their complements, the remaining operators take the "not-" prefix.
// EncodeFilter and ParseFilter round-trip every encodable tree.
package cql
