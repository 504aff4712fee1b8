package main

import (
	"fmt"
	"io"

	"depot/internal/models"
)

// renderTree prints the nested hierarchy with box-drawing characters:
//
//	docs/
//	├── report.pdf
//	└── archive/
//	    └── old.pdf
func renderTree(w io.Writer, tree *models.Tree) {
	for i, node := range tree.Folders {
		renderNode(w, node, "", i == len(tree.Folders)-1)
	}
}

func renderNode(w io.Writer, node *models.FolderNode, prefix string, last bool) {
	connector, childPrefix := "├── ", prefix+"│   "
	if last {
		connector, childPrefix = "└── ", prefix+"    "
	}
	fmt.Fprintf(w, "%s%s%s/\n", prefix, connector, node.Name)

	total := len(node.Files) + len(node.Folders)
	n := 0
	for _, f := range node.Files {
		n++
		c := "├── "
		if n == total {
			c = "└── "
		}
		fmt.Fprintf(w, "%s%s%s\n", childPrefix, c, f.Name)
	}
	for _, child := range node.Folders {
		n++
		renderNode(w, child, childPrefix, n == total)
	}
}
