// Command das2cat reads a das2 stream from a file or stdin and prints a
// summary of every packet it sees: the stream descriptor, each packet
// descriptor, a running count of data packets per id, and any comments
// or exceptions.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/arloliu/das2/stream"
)

func main() {
	verbose := flag.Bool("v", false, "print every data packet's record size")
	flag.Parse()

	path := flag.Arg(0)
	in := os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "das2cat:", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	counts := make(map[int]int)

	r, err := stream.NewReader(in, stream.WithHandlers(stream.Handlers{
		OnStreamDesc: func(sd *stream.StreamDesc) error {
			fmt.Printf("stream: compression=%q\n", sd.Compression)

			return nil
		},
		OnPacketDesc: func(id int, pd *stream.PacketDesc) error {
			fmt.Printf("packet %02d: x=%s y=%d yscan=%d z=%d\n", id, pd.X.Name, len(pd.Y), len(pd.YScan), len(pd.Z))

			return nil
		},
		OnData: func(id int, desc *stream.PacketDesc, record []byte) error {
			counts[id]++
			if *verbose {
				fmt.Printf("data %02d: %d bytes\n", id, len(record))
			}

			return nil
		},
		OnComment: func(c stream.Comment) error {
			fmt.Printf("comment[%s]: %s\n", c.Type, c.Text)

			return nil
		},
		OnException: func(e stream.Exception) error {
			fmt.Fprintf(os.Stderr, "exception[%s]: %s\n", e.Type, e.Message)

			return nil
		},
	}))
	if err != nil {
		fmt.Fprintln(os.Stderr, "das2cat:", err)
		os.Exit(1)
	}

	if err := r.ReadLoop(); err != nil {
		fmt.Fprintln(os.Stderr, "das2cat:", err)
		os.Exit(1)
	}

	for id, n := range counts {
		fmt.Printf("packet %02d: %d data packets\n", id, n)
	}
}
