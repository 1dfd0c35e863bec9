package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/treesearch/server"
	"github.com/poiesic/treesearch/tree"
	"github.com/urfave/cli/v2"
)

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("a query is required")
	}

	engine, sess, err := openSession(c)
	if err != nil {
		return err
	}
	defer engine.Release()
	defer sess.Close()

	if err := sess.SetQuery(query); err != nil {
		return err
	}
	if err := sess.Wait(c.Context); err != nil {
		return fmt.Errorf("waiting for results: %w", err)
	}

	out := c.App.Writer
	results := sess.Results()
	for i, item := range results {
		path, _ := tree.ValueOf[string](item)
		if path == "" {
			path = item.Text()
		}
		fmt.Fprintf(out, "%3d  %s\n", i+1, path)
	}

	res := sess.LastResult()
	fmt.Fprintf(out, "%d results (%s, %d visited, %s)\n",
		len(results), res.State, res.Visited, res.Elapsed.Round(time.Microsecond))
	if sess.ReachedLimit() {
		fmt.Fprintln(out, "result limit reached, narrow your query")
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	engine, sess, err := openSession(c)
	if err != nil {
		return err
	}
	defer engine.Release()
	defer sess.Close()

	srv, err := server.NewServer(sess, c.App.Reader, c.App.Writer)
	if err != nil {
		return err
	}
	return srv.Serve(c.Context)
}
