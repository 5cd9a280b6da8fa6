package ws

import (
	"bufio"
	"net"
	"testing"
)

func TestConn_SendTextRejectsInvalidUTF8(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	conn := NewTestConn(server, bufio.NewReader(server), bufio.NewWriter(server), BaseHandler{})

	err := conn.SendText(string([]byte{0xff, 0xfe}))
	if err == nil {
		t.Fatal("expected error sending invalid UTF-8 text")
	}
}

func TestConn_CloseIsIdempotent(t *testing.T) {
	server, client := net.Pipe()
	conn := NewTestConn(server, bufio.NewReader(server), bufio.NewWriter(server), BaseHandler{})

	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	if err := conn.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	client.Close()
}

func TestConn_SendAfterCloseFails(t *testing.T) {
	server, client := net.Pipe()
	conn := NewTestConn(server, bufio.NewReader(server), bufio.NewWriter(server), BaseHandler{})

	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := client.Read(buf); err != nil {
				return
			}
		}
	}()

	_ = conn.Close()
	if err := conn.SendText("hi"); err != ErrClosed {
		t.Fatalf("SendText after close = %v, want ErrClosed", err)
	}
	client.Close()
}
