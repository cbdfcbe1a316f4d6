// Package config reads frameset descriptions and builds layout trees from
// them.
//
// A description is a TOML document with a viewport size and a root container:
//
//	name   = "mail"
//	width  = 800
//	height = 600
//
//	[root]
//	rows   = "80,*"
//	border = 4
//
//	  [[root.children]]
//	  name = "header"
//
//	  [[root.children]]
//	  cols = "30%,*"
//
//	    [[root.children.children]]
//	    name = "toc"
//
//	    [[root.children.children]]
//	    name = "message"
//
// A node is a container when it declares rows, cols or children; otherwise it
// is a leaf. Containers inherit border and frameborder from the nearest
// ancestor that sets them, and leaves inherit frameborder from their parent.
//
// Track lists use the frameset syntax parsed by [ParseLengths]: "100" is a
// fixed track, "25%" a percentage and "*" or "2*" a relative share.
package config
