package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fsentry/fsentry"
)

func main() {
	dev := flag.Bool("dev", false, "Enable debug logging")
	flag.Usage = usage
	flag.Parse()

	if *dev {
		fsentry.SetLogger(fsentry.NewDevelopmentLogger())
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "stat":
		err = runStat(args[1:])
	case "list":
		err = runList(args[1:])
	case "tree":
		err = runTree(args[1:])
	case "size":
		err = runSize(args[1:])
	case "pack":
		err = runPack(args[1:])
	case "unpack":
		err = runUnpack(args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsentry: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fsentry [-dev] <stat|list|tree|size|pack|unpack> [options] <path>")
}

func entryArg(args []string) (*fsentry.Entry, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("exactly one path argument required")
	}
	return fsentry.New(args[0])
}

func runStat(args []string) error {
	e, err := entryArg(args)
	if err != nil {
		return err
	}
	fmt.Printf("path:      %s\n", e.FullPath())
	switch {
	case e.IsFile():
		fmt.Println("kind:      file")
		if n, err := e.Length(); err == nil {
			fmt.Printf("size:      %d\n", n)
		}
		if mt, err := e.MimeType(); err == nil {
			fmt.Printf("mime:      %s\n", mt)
		}
	case e.IsDirectory():
		fmt.Println("kind:      directory")
		if n, err := e.TotalSize(); err == nil {
			fmt.Printf("size:      %d\n", n)
		}
	default:
		fmt.Println("kind:      absent")
		return nil
	}
	if t, err := e.LastWriteTime(); err == nil {
		fmt.Printf("modified:  %s\n", t.Format("2006-01-02 15:04:05"))
	}
	if ro, err := e.IsReadOnly(); err == nil {
		fmt.Printf("read-only: %v\n", ro)
	}
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	pattern := fs.String("pattern", "*", "Name pattern (* and ? wildcards)")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories")
	dirs := fs.Bool("dirs", false, "List directories instead of files")
	fs.Parse(args)

	e, err := entryArg(fs.Args())
	if err != nil {
		return err
	}
	option := fsentry.TopDirectoryOnly
	if *recursive {
		option = fsentry.AllDirectories
	}

	walk := e.WalkFiles
	if *dirs {
		walk = e.WalkDirectories
	}
	return walk(*pattern, option, func(child *fsentry.Entry) error {
		fmt.Println(child.FullPath())
		return nil
	})
}

func runTree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	depth := fs.Int("depth", -1, "Maximum depth (-1 for unlimited)")
	fs.Parse(args)

	e, err := entryArg(fs.Args())
	if err != nil {
		return err
	}
	root, err := e.Tree(*depth)
	if err != nil {
		return err
	}
	fmt.Println(root.Entry.FullPath())
	printTree(root, 1)
	return nil
}

func printTree(node *fsentry.TreeNode, indent int) {
	for _, child := range node.Children {
		fmt.Printf("%s%s\n", strings.Repeat("  ", indent), child.Entry.Name())
		printTree(child, indent+1)
	}
}

func runSize(args []string) error {
	e, err := entryArg(args)
	if err != nil {
		return err
	}
	n, err := e.TotalSize()
	if err != nil {
		return err
	}
	human, err := e.HumanSize()
	if err != nil {
		return err
	}
	fmt.Printf("%d (%s)\n", n, human)
	return nil
}

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	out := fs.String("out", "", "Output archive path (.zip, .tar, .tar.gz, .tar.zst)")
	fs.Parse(args)
	if *out == "" {
		return fmt.Errorf("-out is required")
	}

	e, err := entryArg(fs.Args())
	if err != nil {
		return err
	}

	var archive *fsentry.Entry
	switch {
	case strings.HasSuffix(*out, ".zip"):
		archive, err = e.ArchiveZip(*out)
	case strings.HasSuffix(*out, ".tar.gz"), strings.HasSuffix(*out, ".tgz"):
		archive, err = e.ArchiveTar(*out, fsentry.TarGzip)
	case strings.HasSuffix(*out, ".tar.zst"):
		archive, err = e.ArchiveTar(*out, fsentry.TarZstd)
	case strings.HasSuffix(*out, ".tar"):
		archive, err = e.ArchiveTar(*out, fsentry.TarNone)
	default:
		return fmt.Errorf("unrecognized archive extension: %s", *out)
	}
	if err != nil {
		return err
	}
	n, err := archive.Length()
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d bytes)\n", archive.FullPath(), n)
	return nil
}

func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	dest := fs.String("dest", ".", "Destination directory")
	fs.Parse(args)

	e, err := entryArg(fs.Args())
	if err != nil {
		return err
	}
	return e.Extract(*dest)
}
