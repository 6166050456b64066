// Command qlexdump lexes a single M source file and pretty-prints its
// tokens, comments, and any lex errors. It exists to exercise the lex
// package from the outside, the same role cmd/mibdump plays for the SMI
// parser.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/alecthomas/repr"

	"github.com/lukeod/qlex/lex"
)

func main() {
	log.SetFlags(0)

	path := flag.String("file", "", "path to the M source file to lex")
	showComments := flag.Bool("comments", true, "include comments in the dump")
	flag.Parse()

	if *path == "" {
		log.Fatal("qlexdump: -file is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("qlexdump: reading %s: %v", *path, err)
	}

	snapshot, lexErr := lex.TryFrom(lex.FromText(string(data)))
	if lexErr != nil {
		for _, entry := range lexErr.Entries {
			log.Printf("%s: %s", *path, entry.String())
		}
		log.Fatalf("qlexdump: %s: lexing failed with %d error(s)", *path, len(lexErr.Entries))
	}

	log.Printf("%s: %d tokens", *path, len(snapshot.Tokens))
	repr.Println(snapshot.Tokens)

	if *showComments && len(snapshot.Comments) > 0 {
		log.Printf("%s: %d comments", *path, len(snapshot.Comments))
		repr.Println(snapshot.Comments)
	}
}
