// Package pipeline runs a photographed puzzle through grid detection,
// perspective correction, cell segmentation and digit recognition.
//
// Stages run one after another on a single image. Only per-cell
// recognition fans out, bounded by the configured worker count.
package pipeline
