package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-resty/resty/v2"
)

func newClient() *resty.Client {
	c := resty.New().SetBaseURL(apiFlag)
	if tokenFlag != "" {
		c.SetAuthToken(tokenFlag)
	}
	return c
}

// writePretty indents the response body for terminal output.
func writePretty(out io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, werr := out.Write(body)
		return werr
	}
	_, err := fmt.Fprintln(out, buf.String())
	return err
}

func checkStatus(resp *resty.Response) error {
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func runNear(lat, lng, radius float64, out io.Writer) error {
	resp, err := newClient().R().
		SetQueryParams(map[string]string{
			"lat":    strconv.FormatFloat(lat, 'f', -1, 64),
			"lng":    strconv.FormatFloat(lng, 'f', -1, 64),
			"radius": strconv.FormatFloat(radius, 'f', -1, 64),
		}).
		Get("/api/memories/near/search")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return writePretty(out, resp.Body())
}

func runList(page, limit int, query, tag, month string, out io.Writer) error {
	req := newClient().R().
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit))
	if query != "" {
		req.SetQueryParam("q", query)
	}
	if tag != "" {
		req.SetQueryParam("tag", tag)
	}
	if month != "" {
		req.SetQueryParam("month", month)
	}
	resp, err := req.Get("/api/memories")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return writePretty(out, resp.Body())
}

func runStats(lat, lng, radius string, out io.Writer) error {
	req := newClient().R()
	if lat != "" {
		req.SetQueryParam("lat", lat)
	}
	if lng != "" {
		req.SetQueryParam("lng", lng)
	}
	if radius != "" {
		req.SetQueryParam("radius", radius)
	}
	resp, err := req.Get("/api/memories/stats/summary")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	return writePretty(out, resp.Body())
}
