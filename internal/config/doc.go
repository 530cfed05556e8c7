// Package config loads a declarative build manifest describing a graph of
// artifacts and commands, playing the role the teacher's build.textproto /
// pb.ReadBuildFile plays for describing a package's build recipe — but as a
// small hand-rolled key=value/block text format rather than protobuf, since
// no protobuf toolchain or generated stubs are available here.
package config
