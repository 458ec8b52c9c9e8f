// Package rpm provides a pure Go codec for the RPM binary package format.
//
// # Design Philosophy
//
// The package operates entirely in-memory and on streams: package files are
// parsed from any io.Reader into structured objects (lead, header sections,
// byte regions), and header sections are rendered back to their exact
// on-disk byte layout. No external tools like 'rpm' or 'rpmsign' are
// required, making it suitable for CI/CD pipelines and cross-platform
// tooling.
//
// # Features
//
//   - Parse the 96-byte lead, the signature header and the payload header
//     of an existing .rpm file, tracking the byte region each occupies.
//   - Render header sections byte-exactly, including value alignment,
//     the immutable-region trailer and 8-byte padding.
//   - A frozen registry of header and signature tags with their wire types,
//     enforced on every read and write.
//   - Typed entry stores with last-write-wins semantics and sorted output.
//
// Signing of package files is built on top of this package by
// github.com/etnz/rpm-sign/sign.
package rpm
