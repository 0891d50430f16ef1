package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AK067CSE/newsagent/internal/pipeline"
	"github.com/AK067CSE/newsagent/internal/session"
)

var (
	ragSessionID    string
	ragChunkSize    int
	ragChunkOverlap int
	ragTopK         int
	ragFromCache    bool
)

var ragCmd = &cobra.Command{
	Use:   "rag",
	Short: "Ingest pages into the retrieval index and query it",
}

var ragIngestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Ingest URLs (or the cached discovery) into a retrieval session",
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, cfg := buildPipeline(obs, store)
		if ragChunkSize == 0 {
			ragChunkSize = cfg.Rag.ChunkSize
		}
		if ragChunkOverlap == 0 {
			ragChunkOverlap = cfg.Rag.ChunkOverlap
		}

		urls := args
		if ragFromCache {
			discovery, ok := pl.LatestDiscovery()
			if !ok {
				fmt.Println("No cached discovery. Run `newsagent discover` first.")
				return
			}
			for _, a := range discovery.Articles {
				if a.URL != "" {
					urls = append(urls, a.URL)
				}
			}
		}
		if len(urls) == 0 {
			fmt.Println("Nothing to ingest: pass URLs or use --from-cache.")
			return
		}

		id := session.NewIdentity()
		if ragSessionID != "" {
			// Resume a server-issued session; last write wins.
			id = id.WithSessionID(ragSessionID)
		}
		ctx := session.NewContext(context.Background(), id)

		result, err := pl.Ingest(ctx, pipeline.IngestRequest{
			URLs:         urls,
			SessionID:    ragSessionID,
			ChunkSize:    ragChunkSize,
			ChunkOverlap: ragChunkOverlap,
		})
		if err != nil {
			fail(err)
		}

		fmt.Printf("Ingested %d URLs into session %s (%d chunks)\n",
			result.URLsIngested, result.SessionID, result.ChunksCreated)
		fmt.Printf("Query it with: newsagent rag query --session %s \"your question\"\n", result.SessionID)
	},
}

var ragQueryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against an ingested session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		obs := newObserver()
		defer obs.Close()
		store := getStore()
		defer store.Close()

		pl, cfg := buildPipeline(obs, store)
		if ragTopK == 0 {
			ragTopK = cfg.Rag.TopK
		}
		if ragSessionID == "" {
			fmt.Println("A --session id is required (printed by rag ingest).")
			return
		}

		id := session.NewIdentity().WithSessionID(ragSessionID)
		ctx := session.NewContext(context.Background(), id)

		result, err := pl.Query(ctx, pipeline.QueryRequest{
			SessionID: ragSessionID,
			Question:  args[0],
			TopK:      ragTopK,
		})
		if err != nil {
			fail(err)
		}

		fmt.Println(result.Answer)
		for _, src := range result.Sources {
			fmt.Printf("  [%d] %s\n", src.ChunkIndex, src.URL)
		}
	},
}

func init() {
	RootCmd.AddCommand(ragCmd)
	ragCmd.AddCommand(ragIngestCmd)
	ragCmd.AddCommand(ragQueryCmd)

	ragIngestCmd.Flags().StringVar(&ragSessionID, "session", "", "Existing retrieval session id")
	ragIngestCmd.Flags().IntVar(&ragChunkSize, "chunk-size", 0, "Chunk size in characters")
	ragIngestCmd.Flags().IntVar(&ragChunkOverlap, "chunk-overlap", 0, "Chunk overlap in characters")
	ragIngestCmd.Flags().BoolVar(&ragFromCache, "from-cache", false, "Ingest the URLs from the cached discovery")
	ragQueryCmd.Flags().StringVar(&ragSessionID, "session", "", "Retrieval session id")
	ragQueryCmd.Flags().IntVar(&ragTopK, "top-k", 0, "Number of chunks to retrieve")
}
