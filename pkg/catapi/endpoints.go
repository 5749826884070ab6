package catapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samvad-hq/billi-gallery/internal/domain"
)

// RandomImages fetches a page of random images.
func (c *Client) RandomImages(ctx context.Context) ([]domain.Image, error) {
	payload, err := c.Request(ctx, fmt.Sprintf("images/search?limit=%d", c.randomLimit), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Image](payload, "random images")
}

// Favourites lists the favourites of the account.
func (c *Client) Favourites(ctx context.Context) ([]domain.Favourite, error) {
	payload, err := c.Request(ctx, "favourites", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Favourite](payload, "favourites")
}

// SaveFavourite links an image id into the favourites.
func (c *Client) SaveFavourite(ctx context.Context, imageID string) (domain.FavouriteCreated, error) {
	if err := requireID(imageID); err != nil {
		return domain.FavouriteCreated{}, err
	}
	payload, err := c.Request(ctx, "favourites", RequestOptions{
		Method:   http.MethodPost,
		JSONBody: map[string]string{"image_id": imageID},
	})
	if err != nil {
		return domain.FavouriteCreated{}, err
	}
	return decode[domain.FavouriteCreated](payload, "favourite")
}

// DeleteFavourite removes a favourite by its favourite-record id.
func (c *Client) DeleteFavourite(ctx context.Context, favouriteID string) error {
	if err := requireID(favouriteID); err != nil {
		return err
	}
	_, err := c.Request(ctx, "favourites/"+url.PathEscape(favouriteID), RequestOptions{Method: http.MethodDelete})
	return err
}

// Uploads lists the images uploaded by the account.
func (c *Client) Uploads(ctx context.Context) ([]domain.Image, error) {
	payload, err := c.Request(ctx, fmt.Sprintf("images/?limit=%d", c.uploadLimit), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Image](payload, "uploads")
}

// DeleteUpload removes an uploaded image by image id.
func (c *Client) DeleteUpload(ctx context.Context, imageID string) error {
	if err := requireID(imageID); err != nil {
		return err
	}
	_, err := c.Request(ctx, "images/"+url.PathEscape(imageID), RequestOptions{Method: http.MethodDelete})
	return err
}

// UploadImage sends file content as the multipart field "file".
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (domain.Image, error) {
	if r == nil {
		return domain.Image{}, errors.New("upload requires file content")
	}
	if strings.TrimSpace(filename) == "" {
		filename = "upload"
	}
	payload, err := c.Request(ctx, "images/upload", RequestOptions{
		Method:    http.MethodPost,
		Multipart: &MultipartBody{Field: "file", FileName: filename, Reader: r},
	})
	if err != nil {
		return domain.Image{}, err
	}
	return decode[domain.Image](payload, "uploaded image")
}

// Breeds lists all breeds.
func (c *Client) Breeds(ctx context.Context) ([]domain.Breed, error) {
	payload, err := c.Request(ctx, "breeds", RequestOptions{})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Breed](payload, "breeds")
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("id is required")
	}
	return nil
}
