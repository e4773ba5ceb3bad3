package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/klog/v2"

	"attitude-engine/internal/imageio"
	"attitude-engine/internal/mathutil"
	"attitude-engine/internal/preview"
	"attitude-engine/pkg/attitude"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Engine *attitude.Engine
	// Renderer draws previews for requests that ask for one; nil disables them.
	Renderer  *preview.Renderer
	Format    imageio.Format
	OutputDir string

	DefaultOrder string
	AutoShadow   bool
	Degrees      bool
	Workers      int
}

// Result holds the outcome of processing one request.
type Result struct {
	Index      int                        `json:"index"`
	Name       string                     `json:"name,omitempty"`
	Success    bool                       `json:"success"`
	Error      string                     `json:"error,omitempty"`
	Degenerate bool                       `json:"degenerate,omitempty"`
	Image      string                     `json:"image,omitempty"`
	Result     *attitude.ConversionResult `json:"result,omitempty"`
}

// Run processes all requests using a worker pool. Requests not started before
// ctx is done are reported with the context error.
func Run(ctx context.Context, cfg Config, reqs []Request) []Result {
	total := len(reqs)
	results := make([]Result, total)
	var processed atomic.Int64

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Engine == nil {
		cfg.Engine = attitude.NewEngine()
	}
	if cfg.DefaultOrder == "" {
		cfg.DefaultOrder = "ZYX"
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					klog.InfoS("Batch progress", "processed", p, "total", total, "perSecond", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	idxChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range idxChan {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Index: idx, Name: reqs[idx].Name, Error: err.Error()}
				} else {
					results[idx] = processRequest(cfg, idx, reqs[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range reqs {
		idxChan <- i
	}
	close(idxChan)

	wg.Wait()
	close(done)

	klog.V(2).InfoS("Batch finished", "total", total, "elapsed", time.Since(start))
	return results
}

func processRequest(cfg Config, idx int, req Request) Result {
	res := Result{Index: idx, Name: req.Name}

	in, err := req.Input(cfg)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	out, err := cfg.Engine.Convert(in)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Result = out
	res.Degenerate = out.Degenerate

	if req.Preview && cfg.Renderer != nil {
		img := cfg.Renderer.Render(mathutil.Mat3FromRows(out.RotationMatrix.Matrix))
		rel := imageName(idx, req.Name, cfg.Format)
		if err := imageio.WriteFile(filepath.Join(cfg.OutputDir, rel), img); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Image = rel
	}

	res.Success = true
	return res
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// imageName is "previews/<index>[-<name>].<ext>".
func imageName(idx int, name string, f imageio.Format) string {
	if f == "" {
		f = imageio.WebP
	}
	base := fmt.Sprintf("%04d", idx)
	if s := strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_."); s != "" {
		base += "-" + s
	}
	return filepath.Join("previews", base+f.Ext())
}
