package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lectorio/lectorio/cli/config"
	"github.com/spf13/cobra"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Series browsing commands",
	Long:  `Browse series and their aggregate metrics.`,
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent series",
	Long:  `List the most recently added series with their counters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: lectorioctl init")
			return err
		}

		resp, err := http.Get(serverURL + "/series")
		if err != nil {
			printError("List failed: Server connection error")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)

		if resp.StatusCode != http.StatusOK {
			var errResp map[string]string
			json.Unmarshal(body, &errResp)
			printError(fmt.Sprintf("List failed: %s", errResp["error"]))
			return fmt.Errorf("list failed")
		}

		var seriesList []struct {
			ID       string `json:"id"`
			Title    string `json:"title"`
			Author   string `json:"author"`
			Likes    int    `json:"likes"`
			Dislikes int    `json:"dislikes"`
			Views    int    `json:"views"`
		}
		json.Unmarshal(body, &seriesList)

		if len(seriesList) == 0 {
			fmt.Println("No series found.")
			return nil
		}

		fmt.Printf("Found %d series:\n\n", len(seriesList))
		for i, s := range seriesList {
			fmt.Printf("%d. %s\n", i+1, s.Title)
			fmt.Printf("   ID: %s\n", s.ID)
			if s.Author != "" {
				fmt.Printf("   Author: %s\n", s.Author)
			}
			fmt.Printf("   Likes: %d  Dislikes: %d  Views: %d\n", s.Likes, s.Dislikes, s.Views)
			fmt.Println()
		}
		return nil
	},
}
