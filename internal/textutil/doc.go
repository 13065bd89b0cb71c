// Package textutil provides tokenization, normalization, and similarity
// helpers shared by the classifier, the catalog normalizer, and the matcher.
package textutil
