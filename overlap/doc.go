// Package overlap implements the partitioned overlap-record store of spec
// §4.D/§6: a fixed-size binary Record type, the multi-pass
// dumped-files-per-pass partitioning protocol, and the on-disk
// <dir>/p<nnnnnnnn> + <dir>/np layout.
//
// I/O goes through github.com/grailbio/base/file, the same scheme-
// transparent local/S3 abstraction seq.Directory uses, rather than a
// bespoke interface — a partition directory may live under s3://... simply
// by registering the s3file implementation at program startup, exactly as
// the teacher's bamprovider tests do.
package overlap
