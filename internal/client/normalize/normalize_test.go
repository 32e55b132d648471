package normalize

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudshare/internal/client/models"
)

func ptr[T any](v T) *T { return &v }

func TestVerified_EverySynonymAgrees(t *testing.T) {
	shapes := []string{
		`{"data":{"verified":true}}`,
		`{"verified":true}`,
		`{"data":{"isVerified":true}}`,
		`{"isVerified":true}`,
		`{"emailVerified":true}`,
		`{"data":{"emailVerified":true}}`,
		`{"status":"Verified"}`,
		`{"status":"verified"}`,
	}
	for _, s := range shapes {
		assert.True(t, Verified(MustParse(s)), s)
	}

	assert.False(t, Verified(MustParse(`{"verified":false,"isVerified":true}`)), "first present key wins")
	assert.False(t, Verified(MustParse(`{"status":"unverified"}`)))
	assert.False(t, Verified(MustParse(`{}`)))
}

func TestPremium_EverySynonymAgrees(t *testing.T) {
	shapes := []string{
		`{"data":{"isPremium":true}}`,
		`{"isPremium":true}`,
		`{"data":{"premium":true}}`,
		`{"premium":true}`,
		`{"status":"PREMIUM"}`,
	}
	for _, s := range shapes {
		assert.True(t, Premium(MustParse(s)).IsPremium, s)
	}
	assert.False(t, Premium(MustParse(`{"status":"free"}`)).IsPremium)
}

func TestUserPatch_Synonyms(t *testing.T) {
	shapes := []string{
		`{"id":"u1","firstName":"Ada","lastName":"L","role":"USER","profileImageUrl":"p","emailVerified":true,"isPremium":true}`,
		`{"userId":"u1","firstname":"Ada","lastname":"L","userRole":"USER","avatarUrl":"p","verified":true,"premium":true}`,
		`{"uid":"u1","givenName":"Ada","surname":"L","userRole":"USER","photoUrl":"p","verified":1,"premium":"true"}`,
	}
	want := models.User{
		ID: "u1", Name: "Ada L", FirstName: "Ada", LastName: "L", Role: "USER",
		ProfileImageURL: "p", EmailVerified: true, IsPremium: true,
	}
	for _, s := range shapes {
		if diff := cmp.Diff(want, User(MustParse(s))); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestUserPatch_OnlyPresentFields(t *testing.T) {
	p := UserPatch(MustParse(`{"email":"a@b.c"}`))
	assert.Equal(t, models.UserPatch{Email: ptr("a@b.c")}, p)
	assert.Nil(t, p.IsPremium, "absent premium must not become false")
}

func TestProfile_UnwrapsEnvelope(t *testing.T) {
	p := Profile(MustParse(`{"success":true,"data":{"id":7,"email":"x@y.z"}}`))
	assert.Equal(t, "7", *p.ID)
	assert.Equal(t, "x@y.z", *p.Email)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		in        string
		token     string
		userEmail string
	}{
		{`{"data":{"accessToken":"t1","user":{"email":"a@b"}}}`, "t1", "a@b"},
		{`{"accessToken":"t2","user":{"email":"c@d"}}`, "t2", "c@d"},
		{`{"token":"t3"}`, "t3", ""},
		{`{"message":"bad credentials"}`, "", ""},
	}
	for _, tt := range tests {
		token, user := Login(MustParse(tt.in))
		assert.Equal(t, tt.token, token, tt.in)
		assert.Equal(t, tt.userEmail, User(user).Email, tt.in)
	}
}

func TestAvatarURL(t *testing.T) {
	for _, s := range []string{
		`{"data":{"photoUrl":"u"}}`,
		`{"avatarUrl":"u"}`,
		`{"profileImageUrl":"u"}`,
		`{"url":"u"}`,
		`{"imageUrl":"u"}`,
		`{"profilePhotoUrl":"u"}`,
		`{"user":{"photoUrl":"u"}}`,
		`{"data":{"user":{"avatarUrl":"u"}}}`,
		`{"user":{"profileImageUrl":"u"}}`,
	} {
		assert.Equal(t, "u", AvatarURL(MustParse(s)), s)
	}
	assert.Equal(t, "", AvatarURL(MustParse(`{}`)))
}

func TestContacts(t *testing.T) {
	got := Contacts(MustParse(`{"data":[
		{"email":"a@x","name":"A"},
		{"userEmail":"b@x","fullName":"B B"},
		{"username":"c@x","firstName":"C","lastname":"D","avatarUrl":"img","userId":"9"},
		{"name":"no email"}
	]}`))
	want := []models.Contact{
		{Email: "a@x", Name: "A"},
		{Email: "b@x", Name: "B B"},
		{ID: "9", Email: "c@x", Name: "C D", ProfileImageURL: "img"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_Synonyms(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	shapes := []string{
		`{"id":"f1","name":"a.png","size":2048,"createdAt":"2024-05-01T10:00:00Z","mimeType":"image/png","thumbnailUrl":"t","favorite":true}`,
		`{"_id":"f1","fileName":"a.png","bytes":2048,"date":"2024-05-01T10:00:00Z","type":"image","previewUrl":"t","isFavorite":true,"mimeType":"image/png"}`,
		`{"fileId":"f1","originalName":"a.png","length":"2048","uploadedAt":1714557600000,"contentType":"image/png","thumbnail":"t","_favorite":1}`,
		`{"uuid":"f1","originalName":"a.png","length":2048,"createdOn":"2024-05-01T10:00:00+00:00","mimetype":"image/png","thumbnail":"t","_favorite":"true"}`,
	}
	want := models.FileSummary{
		ID: "f1", Name: "a.png", Size: 2048, CreatedAt: ts, Kind: models.KindImage,
		MimeType: "image/png", ThumbnailURL: "t", Favorite: true,
	}
	for _, s := range shapes {
		if diff := cmp.Diff(want, File(MustParse(s))); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestFile_Defaults(t *testing.T) {
	f := File(MustParse(`{"size":"1.5 MB"}`))
	assert.False(t, f.HasID(), "missing id resolves to null id")
	assert.Equal(t, "Untitled", f.Name)
	assert.Equal(t, "1.5 MB", f.SizeLabel)
	assert.Equal(t, "1.5 MB", f.DisplaySize())
	assert.Equal(t, models.KindDoc, f.Kind)
	assert.False(t, f.Favorite)
	assert.True(t, f.CreatedAt.IsZero())
}

func TestFile_KindFromTypeField(t *testing.T) {
	assert.Equal(t, models.KindVideo, File(MustParse(`{"type":"video/mp4"}`)).Kind)
	assert.Equal(t, models.KindVideo, File(MustParse(`{"mimeType":"video/mp4"}`)).Kind)
	assert.Equal(t, models.KindDoc, File(MustParse(`{"type":"doc","mimeType":"image/png"}`)).Kind)
}

func TestFiles_ListShapes(t *testing.T) {
	for _, s := range []string{
		`[{"id":"1"},{"id":"2"}]`,
		`{"data":[{"id":"1"},{"id":"2"}]}`,
		`{"files":[{"id":"1"},{"id":"2"}]}`,
		`{"list":[{"id":"1"},{"id":"2"}]}`,
	} {
		got := Files(MustParse(s))
		require.Len(t, got, 2, s)
		assert.Equal(t, "2", got[1].ID)
	}
	assert.Empty(t, Files(MustParse(`{"message":"nothing"}`)))
}

func TestSharedFile(t *testing.T) {
	n := MustParse(`{"id":"share-1","fileId":"f9","name":"clip.mp4","size":10,
		"contentType":"video/mp4","sharedOn":"2024-01-02T03:04:05Z",
		"owner":{"fullName":"Olga"},"recipient":{"email":"r@x"}}`)
	got := SharedFile(n, false)

	want := models.FileSummary{
		ID: "f9", Name: "clip.mp4", Size: 10, Kind: models.KindVideo, MimeType: "video/mp4",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Shared: &models.ShareInfo{
			Owner: "Olga", Recipient: "r@x",
			SharedOn: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSharedFile_PersonFallbacks(t *testing.T) {
	tests := []struct {
		in        string
		owner     string
		recipient string
	}{
		{`{"owner":"plain@o"}`, "plain@o", ""},
		{`{"ownerName":"N","toEmail":"t@x"}`, "N", "t@x"},
		{`{"ownerEmail":"o@x","sharedWithEmail":"s@x"}`, "o@x", "s@x"},
		{`{"from":"f","recipientEmail":"r@x"}`, "f", "r@x"},
		{`{"fromEmail":"fe","to":{"username":"u"}}`, "fe", "u"},
		{`{"sharedByEmail":"sb","to":"bare"}`, "sb", "bare"},
		{`{"sharedBy":"s","recipient":{"address":"addr"}}`, "s", "addr"},
	}
	for _, tt := range tests {
		got := SharedFile(MustParse(tt.in), true).Shared
		require.NotNil(t, got)
		assert.Equal(t, tt.owner, got.Owner, tt.in)
		assert.Equal(t, tt.recipient, got.Recipient, tt.in)
		assert.True(t, got.Owned)
	}
}

func TestSharedFile_DefaultContentType(t *testing.T) {
	got := SharedFile(MustParse(`{"fileId":"x"}`), false)
	assert.Equal(t, models.KindDoc, got.Kind)
	assert.Equal(t, "Untitled", got.Name)
}

func TestShare(t *testing.T) {
	got := Share(MustParse(`{"data":{"fileId":"f1","owner":{"email":"o@x"},"recipient":{"email":"r@x"},"sharedOn":"2024-03-03T00:00:00Z"}}`))
	assert.Equal(t, models.ShareRecord{
		FileID: "f1", Owner: "o@x", Recipient: "r@x",
		SharedOn:    time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		ContentType: "application/octet-stream",
	}, got)
}

func TestFileDetail(t *testing.T) {
	d := FileDetail(MustParse(`{"data":{"_id":"f1","fileName":"r.pdf","type":"application/pdf","publicUrl":"https://p"}}`), "fallback")
	assert.Equal(t, "f1", d.ID)
	assert.Equal(t, "application/pdf", d.MimeType)
	assert.Equal(t, models.KindDoc, d.Kind)
	assert.Equal(t, "https://p", d.FileURL)
	assert.True(t, d.IsPublic)

	d = FileDetail(MustParse(`{"file":{"name":"x","url":"https://signed","isPublic":false}}`), "fallback")
	assert.Equal(t, "fallback", d.ID)
	assert.Equal(t, "https://signed", d.FileURL)
	assert.False(t, d.IsPublic)

	d = FileDetail(MustParse(`{"name":"x","url":"https://signed"}`), "id")
	assert.False(t, d.IsPublic, "a bare url does not imply public")
}

func TestDownloadURL(t *testing.T) {
	assert.Equal(t, "a", DownloadURL(MustParse(`{"data":{"downloadUrl":"a"}}`)))
	assert.Equal(t, "b", DownloadURL(MustParse(`{"downloadUrl":"b"}`)))
	assert.Equal(t, "c", DownloadURL(MustParse(`{"url":"c"}`)))
}

func TestQuota(t *testing.T) {
	tests := []struct {
		in   string
		want models.QuotaInfo
	}{
		{`{"usedFiles":3,"fileLimit":10}`, models.QuotaInfo{Used: 3, Limit: ptr(int64(10))}},
		{`{"data":{"filesUsed":4,"maxFiles":null}}`, models.QuotaInfo{Used: 4}},
		{`{"used":1,"limit":-1}`, models.QuotaInfo{Used: 1, Limit: ptr(int64(-1))}},
		{`{"count":2,"totalFiles":"5"}`, models.QuotaInfo{Used: 2, Limit: ptr(int64(5))}},
		{`{"current":9}`, models.QuotaInfo{Used: 9}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Quota(MustParse(tt.in))); diff != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
	assert.True(t, Quota(MustParse(`{"used":1,"limit":-1}`)).Unlimited())
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     int64
	}{
		{"rupees scaled", 500, "INR", 50000},
		{"paise untouched", 50000, "INR", 50000},
		{"other currency untouched", 500, "USD", 500},
		{"case-insensitive currency", 499, "inr", 49900},
		{"threshold is exclusive", 1000, "INR", 1000},
		{"rounded before the check", 999.5, "INR", 1000},
		{"zero", 0, "INR", 0},
		{"negative", -5, "INR", 0},
		{"empty currency means default", 10, "", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinorUnits(tt.amount, tt.currency, "INR"))
		})
	}
}

func TestOrder(t *testing.T) {
	def := OrderDefaults{Currency: "INR", Key: "cfg-key"}

	got := Order(MustParse(`{"data":{"orderId":"o1","amount":500,"currency":"INR","notes":{"plan":"premium","n":1}}}`), def)
	want := models.Order{
		OrderID: "o1", Amount: 50000, Currency: "INR", Key: "cfg-key",
		Name: "CloudShare Premium", Description: "Premium subscription",
		Notes: map[string]string{"plan": "premium", "n": "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	alt := Order(MustParse(`{"order_id":"o2","amount_due":"50000","curr":"inr","razorpayKey":"rk","planName":"Gold","desc":"d","receipt":"r1"}`), def)
	assert.Equal(t, "o2", alt.OrderID)
	assert.Equal(t, int64(50000), alt.Amount)
	assert.Equal(t, "INR", alt.Currency)
	assert.Equal(t, "rk", alt.Key)
	assert.Equal(t, "Gold", alt.Name)
	assert.Equal(t, "d", alt.Description)
	assert.Equal(t, "r1", alt.Receipt)

	usd := Order(MustParse(`{"razorpayOrderId":"o3","amountDue":500,"currency":"USD","key_id":"k"}`), def)
	assert.Equal(t, int64(500), usd.Amount)

	nested := Order(MustParse(`{"order":{"id":"o4","amount":99}}`), OrderDefaults{})
	assert.Equal(t, "o4", nested.OrderID)
	assert.Equal(t, int64(9900), nested.Amount)
	assert.Equal(t, "", nested.Key)

	missing := Order(MustParse(`{"message":"no plan"}`), def)
	assert.Equal(t, "", missing.OrderID)
	assert.Equal(t, int64(0), missing.Amount)
}

func TestPaymentProof(t *testing.T) {
	want := models.PaymentResult{OrderID: "o", PaymentID: "p", Signature: "s"}
	assert.Equal(t, want, PaymentProof(MustParse(`{"razorpay_order_id":"o","razorpay_payment_id":"p","razorpay_signature":"s"}`)))
	assert.Equal(t, want, PaymentProof(MustParse(`{"orderId":"o","paymentId":"p","signature":"s"}`)))
}

// Normalizing a record the normalizer itself produced must not change it.
func TestRoundTrip_Idempotent(t *testing.T) {
	roundTrip := func(t *testing.T, v any) Node {
		t.Helper()
		n, err := Encode(v)
		require.NoError(t, err)
		return n
	}

	t.Run("user", func(t *testing.T) {
		u := User(MustParse(`{"uid":9,"givenName":"A","surname":"B","verified":true}`))
		if diff := cmp.Diff(u, User(roundTrip(t, u))); diff != "" {
			t.Errorf("user drifted (-first +second):\n%s", diff)
		}
	})

	t.Run("file", func(t *testing.T) {
		f := File(MustParse(`{"_id":"x","fileName":"v.mp4","size":"3 MB","uploadedAt":1714557600000,"mimeType":"video/mp4","isFavorite":true}`))
		if diff := cmp.Diff(f, File(roundTrip(t, f))); diff != "" {
			t.Errorf("file drifted (-first +second):\n%s", diff)
		}
	})

	t.Run("shared file", func(t *testing.T) {
		f := SharedFile(MustParse(`{"id":"s","fileId":"x","ownerEmail":"o@x","to":"r@x","sharedOn":"2024-01-01T00:00:00Z","contentType":"image/jpeg"}`), true)
		if diff := cmp.Diff(f, SharedFile(roundTrip(t, f), true)); diff != "" {
			t.Errorf("shared file drifted (-first +second):\n%s", diff)
		}
	})

	t.Run("quota", func(t *testing.T) {
		q := Quota(MustParse(`{"data":{"usedFiles":3,"maxFiles":10}}`))
		if diff := cmp.Diff(q, Quota(roundTrip(t, q))); diff != "" {
			t.Errorf("quota drifted (-first +second):\n%s", diff)
		}
	})

	t.Run("order", func(t *testing.T) {
		def := OrderDefaults{Currency: "INR"}
		o := Order(MustParse(`{"id":"o","amount":5,"razorpayKey":"k","notes":{"a":"b"}}`), def)
		require.Equal(t, int64(500), o.Amount)
		if diff := cmp.Diff(o, Order(roundTrip(t, o), def)); diff != "" {
			t.Errorf("order drifted (-first +second):\n%s", diff)
		}
	})
}
