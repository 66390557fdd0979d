// Command demo runs the same sequence the original C++ header's
// demonstration program does: 1024 incomplete writes, 512 retractions
// via unwrite (each printed as it comes back out), one final flushed
// write, then a drain loop reading everything flush made visible.
package main

import (
	"fmt"

	"github.com/bitlf/lfpipe"
)

func main() {
	pipe := lfpipe.NewPipe[int](lfpipe.DefaultChunkSize, lfpipe.DefaultPoolSize)

	for i := 0; i < 1024; i++ {
		if err := pipe.Write(i, true); err != nil {
			panic(err)
		}
	}

	var value int
	for i := 0; i < 512; i++ {
		pipe.Unwrite(&value)
		fmt.Println(value)
	}

	if err := pipe.Write(-1, false); err != nil {
		panic(err)
	}
	pipe.Flush()

	for {
		v, ok := pipe.Read()
		if !ok {
			break
		}
		fmt.Println(v)
	}
}
