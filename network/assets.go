package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// loadAssets fetches the document's external subresources so the
// domComplete and load-event marks reflect real asset transfer time.
// Individual asset failures are tolerated and counted, never fatal.
func loadAssets(client *http.Client, doc *goquery.Document, baseURL *url.URL, concurrency int) AssetSummary {
	var links []string
	doc.Find("link[href], script[src], img[src]").Each(func(_ int, s *goquery.Selection) {
		link, exists := s.Attr("href")
		if !exists {
			link, exists = s.Attr("src")
		}
		if exists {
			links = append(links, link)
		}
	})

	var summary AssetSummary
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Semaphore bounds concurrent asset requests.
	sem := make(chan struct{}, concurrency)

	for _, link := range links {
		wg.Add(1)
		sem <- struct{}{}

		go func(link string) {
			defer wg.Done()
			defer func() { <-sem }()

			size, err := fetchAsset(client, link, baseURL)
			mu.Lock()
			if err != nil {
				summary.Failed++
			} else {
				summary.Count++
				summary.TotalBytes += size
			}
			mu.Unlock()
		}(link)
	}

	wg.Wait()
	return summary
}

// fetchAsset downloads a single subresource and returns its size.
func fetchAsset(client *http.Client, link string, baseURL *url.URL) (int64, error) {
	assetURL, err := url.Parse(link)
	if err != nil {
		return 0, fmt.Errorf("error parsing asset URL %s: %w", link, err)
	}

	fullURL := baseURL.ResolveReference(assetURL)
	req, err := http.NewRequest(http.MethodGet, fullURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request for asset %s: %w", fullURL.String(), err)
	}
	req.Header.Set("User-Agent", userAgent)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req = req.WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error fetching asset %s: %w", fullURL.String(), err)
	}
	defer resp.Body.Close()

	size, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("error reading asset body %s: %w", fullURL.String(), err)
	}
	return size, nil
}
