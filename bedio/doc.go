// Package bedio reads and writes the tab-separated fragment BED format
// (spec §6): chrom, start, end, cell barcode, and an optional ignored 5th
// column. Files ending in ".gz" are transparently gzip-compressed using
// klauspost/compress, the teacher's compression library of choice.
// Grounded on the teacher's blobstore.LocalStore file-open idiom, adapted
// from a whole-blob read/write to a line-oriented streaming Reader/Writer
// pair since BED files can far exceed memory.
package bedio
