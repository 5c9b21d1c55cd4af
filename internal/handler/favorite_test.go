package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFavorite(t *testing.T) {
	r, db := newTestEnv(t)
	user := createUser(t, db, "jan", true, false)
	cat := createCategory(t, db, "Elektronika", "elektronika")
	ad := createAd(t, db, user, cat, true, 1000)

	w := doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, user.ID),
		map[string]uint{"ad": ad.ID})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fav, _ := respData(t, w)["favorite"].(map[string]interface{})
	require.NotNil(t, fav)
	assert.EqualValues(t, ad.ID, fav["ad"])
	assert.EqualValues(t, user.ID, fav["user"])
}

func TestCreateFavorite_Duplicate(t *testing.T) {
	r, db := newTestEnv(t)
	user := createUser(t, db, "jan", true, false)
	cat := createCategory(t, db, "Elektronika", "elektronika")
	ad := createAd(t, db, user, cat, true, 1000)
	token := accessToken(t, user.ID)

	w := doJSON(t, r, http.MethodPost, "/api/favorites", token, map[string]uint{"ad": ad.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/favorites", token, map[string]uint{"ad": ad.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "To ogłoszenie jest już dodane do ulubionych.", respMessage(t, w))

	// a different user bookmarking the same ad is fine
	other := createUser(t, db, "anna", true, false)
	w = doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, other.ID), map[string]uint{"ad": ad.ID})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateFavorite_MissingAd(t *testing.T) {
	r, db := newTestEnv(t)
	user := createUser(t, db, "jan", true, false)

	w := doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, user.ID),
		map[string]uint{"ad": 9999})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ogłoszenie nie zostało znalezione.", respMessage(t, w))
}

func TestListFavorites_OwnOnly(t *testing.T) {
	r, db := newTestEnv(t)
	jan := createUser(t, db, "jan", true, false)
	anna := createUser(t, db, "anna", true, false)
	cat := createCategory(t, db, "Elektronika", "elektronika")
	ad1 := createAd(t, db, jan, cat, true, 1000)
	ad2 := createAd(t, db, jan, cat, true, 2000)

	doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, jan.ID), map[string]uint{"ad": ad1.ID})
	doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, jan.ID), map[string]uint{"ad": ad2.ID})
	doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, anna.ID), map[string]uint{"ad": ad1.ID})

	w := doJSON(t, r, http.MethodGet, "/api/favorites", accessToken(t, anna.ID), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	favs, _ := respData(t, w)["favorites"].([]interface{})
	assert.Len(t, favs, 1)
}

// Another user's favorite row is invisible, not forbidden.
func TestGetFavorite_CrossUserMasked(t *testing.T) {
	r, db := newTestEnv(t)
	jan := createUser(t, db, "jan", true, false)
	anna := createUser(t, db, "anna", true, false)
	cat := createCategory(t, db, "Elektronika", "elektronika")
	ad := createAd(t, db, jan, cat, true, 1000)

	w := doJSON(t, r, http.MethodPost, "/api/favorites", accessToken(t, jan.ID), map[string]uint{"ad": ad.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	fav, _ := respData(t, w)["favorite"].(map[string]interface{})
	path := fmt.Sprintf("/api/favorites/%.0f", fav["id"])

	w = doJSON(t, r, http.MethodGet, path, accessToken(t, jan.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, path, accessToken(t, anna.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Nie znaleziono ulubionego ogłoszenia.", respMessage(t, w))

	w = doJSON(t, r, http.MethodDelete, path, accessToken(t, anna.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFavoriteByAd(t *testing.T) {
	r, db := newTestEnv(t)
	user := createUser(t, db, "jan", true, false)
	cat := createCategory(t, db, "Elektronika", "elektronika")
	ad := createAd(t, db, user, cat, true, 1000)
	token := accessToken(t, user.ID)

	w := doJSON(t, r, http.MethodPost, "/api/favorites", token, map[string]uint{"ad": ad.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/favorites/by-ad/%d", ad.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// second delete finds nothing
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/favorites/by-ad/%d", ad.ID), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Nie znaleziono ulubionego ogłoszenia.", respMessage(t, w))
}

func TestCheckFavorite(t *testing.T) {
	r, db := newTestEnv(t)
	user := createUser(t, db, "jan", true, false)
	cat := createCategory(t, db, "Elektronika", "elektronika")
	ad := createAd(t, db, user, cat, true, 1000)
	token := accessToken(t, user.ID)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/favorites/check/%d", ad.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, respData(t, w)["is_favorite"])

	doJSON(t, r, http.MethodPost, "/api/favorites", token, map[string]uint{"ad": ad.ID})

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/favorites/check/%d", ad.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, respData(t, w)["is_favorite"])
}
