package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mberzins/discnote/internal/client/api"
)

func (a *App) addReview(ctx context.Context) error {
	albumID, err := getSimpleText(a.reader, "Enter album id", os.Stdout)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Enter review text", os.Stdout)
	if err != nil {
		return err
	}
	score, err := a.readScore()
	if err != nil {
		return err
	}

	review, err := a.client.CreateReview(ctx, api.ReviewInput{
		AlbumID: albumID,
		Title:   title,
		Content: content,
		Score:   score,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created review %s\n", review.ID)
	return nil
}

func (a *App) editReview(ctx context.Context, id string) error {
	title, err := getSimpleText(a.reader, "New title (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "New review text (empty keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	raw, err := getSimpleText(a.reader, "New score 1-10 (empty or 0 keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	score := 0
	if raw != "" {
		score, err = strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("score must be a number: %w", err)
		}
	}

	review, err := a.client.UpdateReview(ctx, id, api.ReviewInput{
		Title:   title,
		Content: content,
		Score:   score,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Updated review %s\n", review.ID)
	return nil
}

func (a *App) deleteReview(ctx context.Context, id string) error {
	if err := a.client.DeleteReview(ctx, id); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

func (a *App) showReview(ctx context.Context, id string) error {
	review, err := a.client.GetReview(ctx, id)
	if err != nil {
		return err
	}
	printReview(*review)
	return nil
}

func (a *App) listByAlbum(ctx context.Context, albumID string, pageNo int) error {
	page, err := a.client.ListByAlbum(ctx, albumID, pageNo, 10)
	if err != nil {
		return err
	}
	printPage(page)
	return nil
}

func (a *App) listByUser(ctx context.Context, username string, pageNo int) error {
	page, err := a.client.ListByUsername(ctx, username, pageNo, 10)
	if err != nil {
		return err
	}
	printPage(page)
	return nil
}

func (a *App) readScore() (int, error) {
	raw, err := getSimpleText(a.reader, "Enter score 1-10", os.Stdout)
	if err != nil {
		return 0, err
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("score must be a number: %w", err)
	}
	return score, nil
}

func printPage(page *api.ReviewPage) {
	for _, r := range page.Content {
		printReview(r)
	}
	fmt.Printf("Page %d of %d (%d total)\n", page.PageNo, page.TotalPages, page.TotalElements)
	if page.Partial {
		fmt.Println("Note: some album metadata is temporarily unavailable.")
	}
}

func printReview(r api.Review) {
	album := r.AlbumID
	if r.Album != nil {
		album = fmt.Sprintf("%s by %s", r.Album.Name, r.Album.Artist)
	}
	fmt.Printf("[%s] %s on %s: %q (%d/10) %s\n",
		r.ID, r.Username, album, r.Title, r.Score, r.PublishedDate.Format("2006-01-02"))
}
