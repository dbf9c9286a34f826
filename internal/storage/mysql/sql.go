package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (hotel_id, name, description, address, city, country, lat, lon,
   star_rating, review_score, review_count, price_min, price_max, currency,
   amenities, amenities_text, active, verified, featured, verification_rate, popularity)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name              = VALUES(name),
  description       = VALUES(description),
  address           = VALUES(address),
  city              = VALUES(city),
  country           = VALUES(country),
  lat               = VALUES(lat),
  lon               = VALUES(lon),
  star_rating       = VALUES(star_rating),
  review_score      = VALUES(review_score),
  review_count      = VALUES(review_count),
  price_min         = VALUES(price_min),
  price_max         = VALUES(price_max),
  currency          = VALUES(currency),
  amenities         = VALUES(amenities),
  amenities_text    = VALUES(amenities_text),
  active            = VALUES(active),
  verified          = VALUES(verified),
  featured          = VALUES(featured),
  verification_rate = VALUES(verification_rate),
  popularity        = VALUES(popularity),
  updated_at        = CURRENT_TIMESTAMP
`

// hotelCols is the shared SELECT column list; scanHotel expects exactly
// this order.
const hotelCols = `
  hotel_id, name, description, address, city, country, lat, lon,
  star_rating, review_score, review_count, price_min, price_max, currency,
  amenities, active, verified, featured, verification_rate, popularity`

const getHotelSQL = `SELECT` + hotelCols + `
FROM hotels
WHERE hotel_id = ?`

// searchByNameSQL ranks by full-text relevance over name, description,
// city, address and the flattened amenity names, then by stars.
const searchByNameSQL = `SELECT` + hotelCols + `,
  MATCH(name, description, city, address, amenities_text) AGAINST (? IN NATURAL LANGUAGE MODE) AS relevance
FROM hotels
WHERE active = 1
  AND MATCH(name, description, city, address, amenities_text) AGAINST (? IN NATURAL LANGUAGE MODE)`
