// Package contract implements version-gated plugin interface contracts.
//
// An interface author declares a registry of member slots, each tagged
// with the revision that introduced it, whether implementors must supply
// it, and optional capability groups. An implementation declares the
// revision range it targets and the members it actually defines; the
// engine then computes which mandatory members it is missing and which
// capabilities it consistently supports, so a host can discover at load
// time whether a candidate implementation is usable.
//
// Members introduced after an implementation's targeted revision are
// never demanded of it, which keeps interface evolution backward
// compatible by construction.
//
// The validate, gate, and host packages build on this one: validation of
// implementation declarations, cached instantiation gating, and the
// application-facing discovery queries. The manifest package reads
// declarations from JSON or YAML files, revision tracks interface
// changelogs, and observe adds metrics and logging hooks.
package contract
