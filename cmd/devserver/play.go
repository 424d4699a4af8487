package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "낚시> "

type turnHandler interface {
	Handle(ctx context.Context, uid, text string) string
}

// play relays each input line to turns as uid and prints the replies
// until in is exhausted.
//
// Postcondition: returns nil on EOF.
func play(ctx context.Context, turns turnHandler, uid string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "🎣 %s 로 접속했습니다. /닉네임 으로 시작하세요.\n%s", uid, prompt)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if reply := turns.Handle(ctx, uid, strings.TrimSpace(scanner.Text())); reply != "" {
			fmt.Fprintln(out, reply)
		}
		fmt.Fprint(out, prompt)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
