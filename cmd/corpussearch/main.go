// Command corpussearch is a thin demonstration binary around the engine.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli"

	"github.com/gcbaptista/corpussearch/api"
	"github.com/gcbaptista/corpussearch/config"
	"github.com/gcbaptista/corpussearch/index"
	"github.com/gcbaptista/corpussearch/internal/engine"
	"github.com/gcbaptista/corpussearch/internal/metrics"
	"github.com/gcbaptista/corpussearch/model"
)

func main() {
	if err := makeApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = "corpussearch"
	app.Usage = "full-text search engine demo binary"
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "start the HTTP demo server",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "port", Value: "8080", Usage: "port to listen on"},
				cli.StringFlag{Name: "documents", Usage: "path to a JSON file of documents to index at startup"},
				cli.StringFlag{Name: "settings", Usage: "path to a YAML engine settings file"},
				cli.StringFlag{Name: "property", Value: "corpus", Usage: "property name documents are ingested under"},
				cli.BoolFlag{Name: "metrics", Usage: "expose Prometheus metrics on /metrics"},
			},
			Action: runServe,
		},
		{
			Name:  "query",
			Usage: "build an index from a documents file and run a single query against it",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "documents", Usage: "path to a JSON file of documents to index", Required: true},
				cli.StringFlag{Name: "settings", Usage: "path to a YAML engine settings file"},
				cli.StringFlag{Name: "property", Value: "corpus", Usage: "property name documents are ingested under"},
				cli.BoolFlag{Name: "hits", Usage: "rank results with HITS link analysis instead of relevance alone"},
			},
			Action: runQuery,
		},
	}
	return app
}

func loadSettings(path string) (config.EngineSettings, error) {
	if path == "" {
		return config.EngineSettings{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.EngineSettings{}, fmt.Errorf("reading settings file: %w", err)
	}
	return config.LoadEngineSettingsYAML(data)
}

func loadDocuments(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading documents file: %w", err)
	}
	var docs []model.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing documents file: %w", err)
	}
	return docs, nil
}

func runServe(c *cli.Context) error {
	settings, err := loadSettings(c.String("settings"))
	if err != nil {
		return err
	}
	propertyName := c.String("property")

	host := engine.NewHost()

	var m *metrics.Metrics
	if c.Bool("metrics") {
		m = metrics.New()
		host.SetMetrics(m)
	}

	if docsPath := c.String("documents"); docsPath != "" {
		docs, err := loadDocuments(docsPath)
		if err != nil {
			return err
		}
		if err := host.Rebuild(settings, func(idx *index.Index) error {
			added, ingestErr := engine.IngestBatch(idx, propertyName, docs, m)
			log.Printf("corpussearch: indexed %d/%d documents at startup", added, len(docs))
			return ingestErr
		}); err != nil {
			log.Printf("corpussearch: startup ingest had errors: %v", err)
		}
	}

	router := gin.Default()
	api.SetupRoutes(router, host, propertyName)
	if m != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	port := c.String("port")
	log.Printf("corpussearch: listening on :%s", port)
	return router.Run(":" + port)
}

func runQuery(c *cli.Context) error {
	settings, err := loadSettings(c.String("settings"))
	if err != nil {
		return err
	}
	docs, err := loadDocuments(c.String("documents"))
	if err != nil {
		return err
	}

	idx, err := index.NewIndex(settings)
	if err != nil {
		return err
	}
	added, err := engine.IngestBatch(idx, c.String("property"), docs, nil)
	if err != nil {
		log.Printf("corpussearch: ingest had errors: %v", err)
	}
	log.Printf("corpussearch: indexed %d/%d documents", added, len(docs))

	rawQuery := c.Args().First()
	matches, err := idx.Search(rawQuery, nil, c.Bool("hits"))
	if err != nil {
		return err
	}

	// matches carry Incoming/Outgoing pointers into the HITS arena, which
	// can hold mutual references between two linked documents; marshaling
	// them directly would recurse forever. Flatten to a plain result list.
	type result struct {
		DocID        uint32   `json:"doc_id"`
		Score        float64  `json:"score"`
		MatchedTerms []string `json:"matched_terms"`
	}
	results := make([]result, 0, len(matches))
	for _, m := range matches {
		terms := make([]string, 0, len(m.MatchedTerms))
		for t := range m.MatchedTerms {
			terms = append(terms, t)
		}
		results = append(results, result{DocID: m.DocID, Score: m.FinalScore, MatchedTerms: terms})
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
