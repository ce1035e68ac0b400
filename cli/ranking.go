package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lectorio/lectorio/cli/config"
	"github.com/spf13/cobra"
)

var cronSecret string

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Ranking commands",
	Long:  `Inspect series rankings and trigger recomputation.`,
}

var rankingTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show top ranked series",
	Long:  `Show the highest scored series from the last ranking run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: lectorioctl init")
			return err
		}

		resp, err := http.Get(serverURL + "/rankings")
		if err != nil {
			printError("Ranking fetch failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			var errResp map[string]string
			json.Unmarshal(body, &errResp)
			printError(fmt.Sprintf("Ranking fetch failed: %s", errResp["error"]))
			return fmt.Errorf("ranking fetch failed")
		}

		var rankings []struct {
			SeriesID string  `json:"series_id"`
			Title    string  `json:"title"`
			Score    float64 `json:"score"`
			Likes    int     `json:"likes"`
			Dislikes int     `json:"dislikes"`
			Views    int     `json:"views"`
		}
		json.Unmarshal(body, &rankings)

		if len(rankings) == 0 {
			fmt.Println("No rankings computed yet.")
			fmt.Println("Run: lectorioctl ranking recompute --secret <cron-secret>")
			return nil
		}

		for i, r := range rankings {
			fmt.Printf("%d. %s (score %.2f)\n", i+1, r.Title, r.Score)
			fmt.Printf("   Likes: %d  Dislikes: %d  Views: %d\n", r.Likes, r.Dislikes, r.Views)
		}
		return nil
	},
}

var rankingRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Trigger a ranking recompute",
	Long:  `Invoke the scheduler endpoint to recompute all series rankings. Requires the cron shared secret.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: lectorioctl init")
			return err
		}

		secret := cronSecret
		if secret == "" {
			if cfg, err := config.Load(); err == nil {
				secret = cfg.Cron.Secret
			}
		}
		if secret == "" {
			printError("Cron secret required (--secret or cron.secret in config)")
			return fmt.Errorf("missing cron secret")
		}

		req, err := http.NewRequest("GET", serverURL+"/metrics/recompute-ranking", nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+secret)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			printError("Recompute failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			var errResp map[string]string
			json.Unmarshal(body, &errResp)
			printError(fmt.Sprintf("Recompute failed: %s", errResp["error"]))
			return fmt.Errorf("recompute failed")
		}

		var res struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		json.Unmarshal(body, &res)
		printSuccess(res.Message)
		return nil
	},
}

func init() {
	rankingRecomputeCmd.Flags().StringVar(&cronSecret, "secret", "", "Cron shared secret")
}
